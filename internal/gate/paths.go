package gate

import "strings"

type SecurityLevel int

const (
	SecurityProfile SecurityLevel = iota // governed by profileStatus
	SecurityPublic                       // always reachable
	SecurityAdmin                        // governed by the admin session
)

const (
	PathHome         = "/"
	PathLogin        = "/login"
	PathUnauthorized = "/unauthorized"
	PathProfile      = "/profile"
	PathDashboard    = "/dashboard"
	PathAdminLogin   = "/admin/login"
	PathAdminRoot    = "/admin"
	PathAuthCallback = "/api/auth/callback"
	PathAdminDefault = "/admin/dashboard"
)

// pathSecurity maps exact paths to their level.
var pathSecurity = map[string]SecurityLevel{
	PathHome:         SecurityPublic,
	PathLogin:        SecurityPublic,
	PathUnauthorized: SecurityPublic,
	PathAuthCallback: SecurityPublic,
	PathAdminLogin:   SecurityPublic,
	PathAdminRoot:    SecurityAdmin,
}

// prefixSecurity maps path prefixes (matched on a segment boundary) to their level.
var prefixSecurity = []struct {
	prefix string
	level  SecurityLevel
}{
	{PathAuthCallback + "/", SecurityPublic},
	{PathAdminRoot + "/", SecurityAdmin},
}

// Classify returns the security level for a request path. Unknown paths are
// governed by profileStatus.
func Classify(path string) SecurityLevel {
	path = clean(path)
	if level, ok := pathSecurity[path]; ok {
		return level
	}
	for _, p := range prefixSecurity {
		if strings.HasPrefix(path, p.prefix) {
			return p.level
		}
	}
	return SecurityProfile
}

func clean(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return PathHome
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			return PathHome
		}
	}
	return path
}

// IsAdminLogin reports whether path is the administrator sign-in page.
func IsAdminLogin(path string) bool {
	return clean(path) == PathAdminLogin
}
