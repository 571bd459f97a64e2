package httpx

// Page identifiers used in templates and navigation.
const (
	PageHome      = "home"
	PageLogin     = "login"
	PageDashboard = "dashboard"
)

// Paths the handlers redirect between.
const (
	loginPath     = "/login"
	dashboardPath = "/dashboard"
	callbackPath  = "/auth/callback"
)

// Cookie names.
const (
	sessionCookieName  = "session_id"
	verifierCookieName = "pkce_verifier"
)

// Template directory paths.
const (
	TemplatePathFromRoot = "frontend/templates"       // From project root
	TemplatePathFromTest = "../../frontend/templates" // From internal/http test files
)

//nolint:gochecknoglobals // static read-only lookup for templates
var contentTemplates = map[string]string{
	PageHome:      "home-content",
	PageLogin:     "login-content",
	PageDashboard: "dashboard-content",
}

// ContentTemplateFor returns the content template for the given CurrentPage.
// Falls back to home-content for unknown pages.
func ContentTemplateFor(currentPage string) string {
	if name, ok := contentTemplates[currentPage]; ok {
		return name
	}
	return "home-content"
}
