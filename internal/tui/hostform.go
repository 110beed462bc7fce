package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"uhc/internal/api"
	"uhc/internal/domain"
	"uhc/internal/state"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

const opensLayout = "2006-01-02 15:04"

// hostPage is the match creation form. Region and opening time changes
// feed the conflict checker while the form is being filled; submitting
// dispatches the create operation.
type hostPage struct {
	form    *huh.Form
	editing bool

	// Form-bound values. huh writes into these as the user types.
	opens      string
	region     string
	ip         string
	address    string
	scenarios  string
	teams      string
	size       string
	count      string
	slots      string
	length     string
	mapSize    string
	pvp        string
	version    string
	location   string
	hostName   string
	tournament bool

	// lastChecked is the last (region, opens) pair sent to the
	// conflict checker.
	lastChecked string
}

func newHostPage(root state.Root) *hostPage {
	p := &hostPage{
		teams:   string(domain.TeamStyleFFA),
		count:   "1",
		slots:   "80",
		length:  "90",
		mapSize: "1500",
		pvp:     "20",
		version: "1.8",
	}
	if saved := root.HostForm.Saved; saved != nil {
		p.prefill(saved)
	}
	p.form = p.buildForm()
	return p
}

// prefill seeds the form from the last submitted listing so regular
// hosts only change the opening time.
func (p *hostPage) prefill(saved *api.CreateMatchRequest) {
	p.region = saved.Region
	p.ip = saved.IP
	p.scenarios = strings.Join(saved.Scenarios, ", ")
	p.teams = string(saved.Teams)
	p.count = strconv.Itoa(saved.Count + 1)
	p.slots = strconv.Itoa(saved.Slots)
	p.length = strconv.Itoa(saved.Length)
	p.mapSize = strconv.Itoa(saved.MapSize)
	p.pvp = strconv.Itoa(saved.PVPEnabledAt)
	p.version = saved.Version
	p.location = saved.Location
	p.tournament = saved.Tournament
	if saved.Address != nil {
		p.address = *saved.Address
	}
	if saved.Size != nil {
		p.size = strconv.Itoa(*saved.Size)
	}
	if saved.HostingName != nil {
		p.hostName = *saved.HostingName
	}
}

func (p *hostPage) buildForm() *huh.Form {
	teamOptions := []huh.Option[string]{
		huh.NewOption("FFA", string(domain.TeamStyleFFA)),
		huh.NewOption("Chosen", string(domain.TeamStyleChosen)),
		huh.NewOption("Random", string(domain.TeamStyleRandom)),
		huh.NewOption("Captains", string(domain.TeamStyleCaptains)),
		huh.NewOption("Mystery", string(domain.TeamStyleMystery)),
		huh.NewOption("Red vs Blue", string(domain.TeamStyleRedVsBlue)),
		huh.NewOption("Custom", string(domain.TeamStyleCustom)),
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Opens (UTC, yyyy-mm-dd hh:mm)").Value(&p.opens).Validate(func(s string) error {
				_, err := time.Parse(opensLayout, strings.TrimSpace(s))
				return err
			}),
			huh.NewInput().Title("Region").Value(&p.region).Validate(nonEmpty),
			huh.NewInput().Title("Server IP").Value(&p.ip).Validate(nonEmpty),
			huh.NewInput().Title("Address (optional)").Value(&p.address),
			huh.NewInput().Title("Scenarios (comma separated)").Value(&p.scenarios).Validate(nonEmpty),
		),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Teams").Options(teamOptions...).Value(&p.teams),
			huh.NewInput().Title("Team size (sized styles)").Value(&p.size),
			huh.NewInput().Title("Match number").Value(&p.count).Validate(positiveInt),
			huh.NewInput().Title("Slots").Value(&p.slots).Validate(positiveInt),
			huh.NewInput().Title("Length (minutes)").Value(&p.length).Validate(positiveInt),
			huh.NewInput().Title("Map size").Value(&p.mapSize).Validate(positiveInt),
			huh.NewInput().Title("PVP enabled at (minutes)").Value(&p.pvp),
		),
		huh.NewGroup(
			huh.NewInput().Title("Version").Value(&p.version).Validate(nonEmpty),
			huh.NewInput().Title("Location").Value(&p.location).Validate(nonEmpty),
			huh.NewInput().Title("Hosting name (optional)").Value(&p.hostName),
			huh.NewConfirm().Title("Tournament").Value(&p.tournament),
		),
	).WithShowHelp(false)
}

func nonEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("required")
	}
	return nil
}

func positiveInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("must be a number")
	}
	if n <= 0 {
		return fmt.Errorf("must be positive")
	}
	return nil
}

func (p *hostPage) Title() string { return "Host" }

func (p *hostPage) capturesInput() bool { return p.editing }

func (p *hostPage) Update(a *App, msg tea.Msg) tea.Cmd {
	key, isKey := msg.(tea.KeyMsg)
	if !p.editing {
		if isKey && key.String() == "enter" {
			p.editing = true
			p.form = p.buildForm()
			return p.form.Init()
		}
		return nil
	}

	if isKey && key.String() == "esc" {
		p.editing = false
		return nil
	}

	model, cmd := p.form.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		p.form = f
	}

	p.checkConflicts(a)

	if p.form.State == huh.StateCompleted {
		p.editing = false
		if req, err := p.request(); err == nil {
			a.store.Dispatch(state.CreateMatch.Start(*req))
		}
	}
	return cmd
}

// checkConflicts dispatches a change event whenever the slot-defining
// fields move. The saga debounces via take-latest.
func (p *hostPage) checkConflicts(a *App) {
	opens, err := time.Parse(opensLayout, strings.TrimSpace(p.opens))
	if err != nil {
		opens = time.Time{}
	}
	signature := p.region + "|" + opens.Format(time.RFC3339) + "|" + strconv.FormatBool(p.tournament)
	if signature == p.lastChecked {
		return
	}
	p.lastChecked = signature
	a.store.Dispatch(state.HostFormChanged.New(state.ConflictParams{
		Region:     strings.TrimSpace(p.region),
		Opens:      opens.UTC(),
		Tournament: p.tournament,
	}))
}

// request assembles the submission from the form values.
func (p *hostPage) request() (*api.CreateMatchRequest, error) {
	opens, err := time.Parse(opensLayout, strings.TrimSpace(p.opens))
	if err != nil {
		return nil, err
	}

	req := &api.CreateMatchRequest{
		Opens:      opens.UTC(),
		IP:         strings.TrimSpace(p.ip),
		Region:     strings.TrimSpace(p.region),
		Location:   strings.TrimSpace(p.location),
		Version:    strings.TrimSpace(p.version),
		Teams:      domain.TeamStyle(p.teams),
		Tournament: p.tournament,
		Content:    "hosted via uhc terminal client",
	}
	for _, s := range strings.Split(p.scenarios, ",") {
		if s = strings.TrimSpace(s); s != "" {
			req.Scenarios = append(req.Scenarios, s)
		}
	}
	req.Count, _ = strconv.Atoi(strings.TrimSpace(p.count))
	req.Slots, _ = strconv.Atoi(strings.TrimSpace(p.slots))
	req.Length, _ = strconv.Atoi(strings.TrimSpace(p.length))
	req.MapSize, _ = strconv.Atoi(strings.TrimSpace(p.mapSize))
	req.PVPEnabledAt, _ = strconv.Atoi(strings.TrimSpace(p.pvp))
	if addr := strings.TrimSpace(p.address); addr != "" {
		req.Address = &addr
	}
	if name := strings.TrimSpace(p.hostName); name != "" {
		req.HostingName = &name
	}
	if size := strings.TrimSpace(p.size); size != "" {
		if n, err := strconv.Atoi(size); err == nil {
			req.Size = &n
		}
	}
	return req, nil
}

func (p *hostPage) View(a *App) string {
	var b strings.Builder
	b.WriteString(a.theme.Title.Render("Host a match"))
	b.WriteString("\n")

	// Surface conflict check results inline, keyed the same way the
	// form fields are named.
	hf := a.root.HostForm
	if hf.Checking {
		b.WriteString(a.theme.Muted.Render("checking for conflicts..."))
		b.WriteString("\n")
	}
	for _, field := range []string{"opens", "region"} {
		if msg, ok := hf.AsyncErrors[field]; ok {
			b.WriteString(a.theme.Error.Render(fmt.Sprintf("%s: %s", field, msg)))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")

	if !p.editing {
		if hf.Saved != nil {
			b.WriteString(a.theme.Muted.Render(fmt.Sprintf("last submission: %s match #%d", hf.Saved.Region, hf.Saved.Count)))
			b.WriteString("\n")
		}
		b.WriteString(a.theme.Row.Render("press enter to start a new listing"))
		return b.String()
	}

	b.WriteString(p.form.View())
	b.WriteString("\n")
	b.WriteString(a.theme.Muted.Render("esc: abandon form"))
	return b.String()
}
