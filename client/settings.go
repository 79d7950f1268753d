package client

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

/*

Common client settings

*/

const (
	brandName          = "Tsunami"
	templatePageSuffix = ".tmpl.html"
	iconPath           = "/favicon.svg"
	reportBugPath      = "/bugreport.html"
)

// environment variables read when building the page footer
const (
	applicationNameEnvVar     = "APP_NAME"
	applicationEnvEnvVar      = "APP_ENV"
	applicationVersionEnvVar  = "APP_VERSION"
	applicationBuildEnvVar    = "APP_BUILD"
	applicationInstanceEnvVar = "APP_INSTANCE"
)

// All the page templates and static resources are compiled into
// the binary, so the server needs no resource directories at
// runtime.
var (
	//go:embed tmpl
	templateContent embed.FS
	//go:embed static
	staticContent embed.FS
)

// startTime stands in for the modification time of embedded
// resources, which the embedded filesystem doesn't keep.
var startTime = time.Now()

// staticResourcePaths maps URL paths onto embedded static
// resources.  Pages add their own scripts and styles to this map
// in their init functions.
var staticResourcePaths = map[string]string{
	iconPath:      "static/special/favicon.svg",
	"/robots.txt": "static/special/robots.txt",
	reportBugPath: "static/special/report_bug.html",
}

// pageTemplateNames are the templates VerifyResources preloads.
var pageTemplateNames = []string{"error", "home", "solver"}

// VerifyResources - check that all the embedded resources are
// present and well-formed, return error if not.  Servers call
// this at startup, which also warms the template cache, so later
// lookups never write it.
func VerifyResources() error {
	for url, path := range staticResourcePaths {
		if _, err := fs.Stat(staticContent, path); err != nil {
			return fmt.Errorf("Can't serve %q: %v", url, err)
		}
	}
	for _, name := range pageTemplateNames {
		if _, err := loadPageTemplate(name); err != nil {
			return err
		}
	}
	return nil
}

/*

handle static resources

*/

func StaticHandler(w http.ResponseWriter, r *http.Request) bool {
	path, ok := staticResourcePaths[r.URL.Path]
	if ok {
		log.Printf("Serving static resource for %q", r.URL.Path)
		blob, err := staticContent.ReadFile(path)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return true
		}
		http.ServeContent(w, r, path, startTime, bytes.NewReader(blob))
	}
	return ok
}

/*

find and parse templates

*/

// loadedTemplates is the cache of already-parsed templates
var loadedTemplates = make(map[string]*template.Template)

// loadPageTemplate does what you would expect: give it the
// template name, and it will find and parse the embedded
// template and return the resulting template.
func loadPageTemplate(name string) (*template.Template, error) {
	if tmpl, ok := loadedTemplates[name]; ok {
		return tmpl, nil
	}
	tmpl, err := template.ParseFS(templateContent, "tmpl/"+name+templatePageSuffix)
	if err != nil {
		return nil, err
	}
	loadedTemplates[name] = tmpl
	return tmpl, nil
}
