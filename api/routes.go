package api

import "net/url"

// Backend route constants
const (
	RouteLogin           = "/v1/auth/login"
	RouteSessionLogs     = "/v1/session-logs"
	RouteSessionActivity = "/v1/session-logs/{sessionId}/activity"
	RouteSessionLogout   = "/v1/session-logs/logout"
	RouteSessionRevoke   = "/v1/session-logs/revoke/{sessionId}"
)

func activityPath(sessionID string) string {
	return RouteSessionLogs + "/" + url.PathEscape(sessionID) + "/activity"
}

func revokePath(sessionID string) string {
	return RouteSessionLogs + "/revoke/" + url.PathEscape(sessionID)
}
