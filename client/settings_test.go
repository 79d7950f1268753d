package client

import (
	"html/template"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

/*

template lookup

*/

func TestBasicLookup(t *testing.T) {
	defer func() {
		loadedTemplates = make(map[string]*template.Template)
	}()

	for _, name := range pageTemplateNames {
		tmpl1, err := loadPageTemplate(name)
		if err != nil {
			t.Fatalf("Failed to load %s template: %v", name, err)
		}
		tmpl2, err := loadPageTemplate(name)
		if err != nil || tmpl2 != tmpl1 {
			t.Errorf("Second load of %s template didn't use cache! (%v, %v)", name, tmpl2, tmpl1)
		}
	}
}

func TestUnknownLookup(t *testing.T) {
	if _, err := loadPageTemplate("there is no such page"); err == nil {
		t.Errorf("Lookup of an unknown template didn't fail!")
	}
}

func TestVerifyResources(t *testing.T) {
	defer func() {
		loadedTemplates = make(map[string]*template.Template)
	}()

	if err := VerifyResources(); err != nil {
		t.Fatalf("Failed to verify resources: %v", err)
	}
	if len(loadedTemplates) != len(pageTemplateNames) {
		t.Errorf("Verify warmed %d templates, expected %d", len(loadedTemplates), len(pageTemplateNames))
	}
}

/*

static resources

*/

func TestStaticHandler(t *testing.T) {
	paths := []string{
		iconPath, "/robots.txt", reportBugPath,
		homePageCssFile, homePageJsFile,
		solverPageCssFile, solverPageJsFile,
	}
	for _, path := range paths {
		req := httptest.NewRequest("GET", path, nil)
		w := httptest.NewRecorder()
		if !StaticHandler(w, req) {
			t.Errorf("Request for %q was not handled", path)
			continue
		}
		resp := w.Result()
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil || resp.StatusCode != http.StatusOK || len(body) == 0 {
			t.Errorf("Request for %q: status %d, %d bytes, read error %v",
				path, resp.StatusCode, len(body), err)
		}
	}

	req := httptest.NewRequest("GET", "/no-such-resource.css", nil)
	w := httptest.NewRecorder()
	if StaticHandler(w, req) {
		t.Errorf("Request for an unknown resource was handled")
	}
}
