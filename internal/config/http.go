package config

const (
	HCType          = "Content-Type"
	HETag           = "ETag"
	HCacheControl   = "Cache-Control"
	HAcceptEncoding = "Accept-Encoding"
	HContentEnc     = "Content-Encoding"
	HHxRedirect     = "Hx-Redirect"
	HHxRequest      = "Hx-Request"
	HHxTrigger      = "Hx-Trigger"

	CTypeCSS  = "text/css"
	CTypeHTML = "text/html; charset=utf-8"
	CTypeJSON = "application/json"
)

const (
	HTTPErrMethodNotAllowed = "Method not allowed"
)

const (
	CookieTheme     = "theme"
	CookieSessionID = "admin-session"
	CookieAlert     = "alert"
)
