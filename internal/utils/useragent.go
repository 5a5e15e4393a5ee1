package utils

import (
	"strings"

	ua "github.com/mssola/user_agent"
)

// ClientInfo is the summary of a User-Agent string attached to request logs
type ClientInfo struct {
	Kind    string // browser, mobile, bot, cli, unknown
	Browser string
	OS      string
}

var cliAgents = []string{"curl/", "wget/", "httpie/", "go-http-client/", "python-requests/", "postmanruntime/"}

// ParseUserAgent classifies the caller of an API request
func ParseUserAgent(userAgent string) ClientInfo {
	if strings.TrimSpace(userAgent) == "" {
		return ClientInfo{Kind: "unknown"}
	}

	lower := strings.ToLower(userAgent)
	for _, prefix := range cliAgents {
		if strings.HasPrefix(lower, prefix) {
			name := userAgent
			if i := strings.IndexByte(name, '/'); i > 0 {
				name = name[:i]
			}
			return ClientInfo{Kind: "cli", Browser: name}
		}
	}

	parser := ua.New(userAgent)
	info := ClientInfo{Kind: "browser", OS: parser.OS()}
	info.Browser, _ = parser.Browser()

	switch {
	case parser.Bot():
		info.Kind = "bot"
	case parser.Mobile():
		info.Kind = "mobile"
	}
	return info
}
