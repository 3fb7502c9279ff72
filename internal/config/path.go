package config

const (
	//? These paths must match the paths in the embed directive

	StaticLocalDir = "static"
	StaticURLPath  = "/" + StaticLocalDir + "/"

	TemplatesLocalDir = "templates"

	TemplateLayout = "layout.html"
	TemplateHome   = "home.html"
	TemplateSignin = "signin.html"
	TemplateReset  = "reset_request.html"
	TemplateNews   = "news.html"
	TemplateEvent  = "event.html"
)
