package state

// TokenPair is the access/refresh token pair held by a session.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthState is the authentication session slice. Empty tokens mean
// logged out. Claims are derived by selectors, never stored raw.
type AuthState struct {
	AccessToken  string
	RefreshToken string
}

// Auth actions. Login carries a full token pair: both the initial
// login and every successful refresh flow through it. Logout clears
// the session, voluntarily or forced by a terminal refresh failure;
// its payload names the user being logged out, captured by the
// dispatcher while the tokens still decode.
var (
	AuthLogin  = NewEvent[TokenPair]("auth/login")
	AuthLogout = NewEvent[string]("auth/logout")
)

var authReducer = func() *Reducer[AuthState] {
	b := NewBuilder(AuthState{})
	HandleEvent(b, AuthLogin, func(s AuthState, p TokenPair) AuthState {
		return AuthState{AccessToken: p.AccessToken, RefreshToken: p.RefreshToken}
	})
	HandleEvent(b, AuthLogout, func(AuthState, string) AuthState {
		return AuthState{}
	})
	return b.MustBuild()
}()
