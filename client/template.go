package client

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"strconv"

	"github.com/grifmoney/tsunami/storage"
)

/*

solver page

*/

const (
	solverPageCssFile = "/solver.css"
	solverPageJsFile  = "/solver.js"
)

func init() {
	staticResourcePaths[solverPageCssFile] = "static/solver/puzzle.css"
	staticResourcePaths[solverPageJsFile] = "static/solver/puzzle.js"
}

// templateSolverPage is the data passed to the solver page
// template.
type templateSolverPage struct {
	SessionID, PuzzleID, PuzzleName string
	Title, TopHead                  string
	IconFile, CssFile, JsFile       string
	Empties                         int
	Puzzle                          templatePuzzle
	ApplicationFooter               string
}

// templatePuzzle is the template form of a puzzle's square
// array: a row-major grid of cells, each knowing how it should
// be shaded and bordered to make the blocks visible.
type templatePuzzle [][]templatePuzzleCell

// templatePuzzleCell is the template form of one puzzle square.
type templatePuzzleCell struct {
	Index   int
	Value   template.HTML
	Shade   string
	HBorder string
	VBorder string
}

// SolverPage: executes the solver page template over a puzzle's
// values, returning the page content as a string.  On failure
// the error page content is returned instead.
func SolverPage(sessionID string, info *storage.PuzzleInfo, values []int) string {
	tp, err := squareTemplatePuzzle(values)
	if err != nil {
		return ErrorPage(err)
	}

	tsp := templateSolverPage{
		SessionID:         sessionID,
		PuzzleID:          info.PuzzleId,
		PuzzleName:        info.Name,
		Title:             fmt.Sprintf("%s: Solver", brandName),
		TopHead:           fmt.Sprintf("Solving %s", info.Name),
		IconFile:          iconPath,
		CssFile:           solverPageCssFile,
		JsFile:            solverPageJsFile,
		Empties:           info.Empties,
		Puzzle:            tp,
		ApplicationFooter: applicationFooter(),
	}

	tmpl, err := loadPageTemplate("solver")
	if err != nil {
		return ErrorPage(fmt.Errorf("Couldn't load the %q template: %v", "solver", err))
	}
	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, tsp); err != nil {
		return ErrorPage(err)
	}
	return buf.String()
}

// squareTemplatePuzzle: turn a square array of values into its
// template form.  Empty squares show as non-breaking spaces so
// the cells keep their size.
func squareTemplatePuzzle(values []int) (templatePuzzle, error) {
	slen, err := findIntSquareRoot(len(values))
	if err != nil {
		return nil, err
	}
	tlen, err := findIntSquareRoot(slen)
	if err != nil {
		return nil, err
	}
	rows := make(templatePuzzle, slen)
	for i := 0; i < slen; i++ {
		hborder := "middle"
		if i%tlen == 0 {
			hborder = "top"
		} else if i%tlen == tlen-1 {
			hborder = "bottom"
		}
		row := make([]templatePuzzleCell, slen)
		for j := 0; j < slen; j++ {
			vborder := "center"
			if j%tlen == 0 {
				vborder = "left"
			} else if j%tlen == tlen-1 {
				vborder = "right"
			}
			shade := "lighter"
			if (i/tlen+j/tlen)%2 == 0 {
				shade = "darker"
			}
			index := i*slen + j
			value := template.HTML("&nbsp;")
			if values[index] != 0 {
				value = template.HTML(strconv.Itoa(values[index]))
			}
			row[j] = templatePuzzleCell{
				Index:   index + 1,
				Value:   value,
				Shade:   shade,
				HBorder: hborder,
				VBorder: vborder,
			}
		}
		rows[i] = row
	}
	return rows, nil
}

// findIntSquareRoot: return the integer square root of a value,
// error if the value isn't a perfect square.
func findIntSquareRoot(val int) (int, error) {
	for i := 1; i*i <= val; i++ {
		if i*i == val {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%d has no integer square root", val)
}

/*

error page

*/

// templateErrorPage is the data passed to the error page
// template.
type templateErrorPage struct {
	Title, TopHead, Message string
	IconFile                string
	ReportBugPage           string
	ApplicationFooter       string
}

// ErrorPage: executes the error page template over an error,
// returning the page content as a string.  Can't fail: if the
// template machinery itself is broken, a plain-text page with
// both errors is returned instead.
func ErrorPage(e error) string {
	tep := templateErrorPage{
		Title:             fmt.Sprintf("%s: Error", brandName),
		TopHead:           "Error Page",
		Message:           e.Error(),
		IconFile:          iconPath,
		ReportBugPage:     reportBugPath,
		ApplicationFooter: applicationFooter(),
	}

	tmpl, err := loadPageTemplate("error")
	if err != nil {
		return fmt.Sprintf("Couldn't load the %q template: %v", "error", err)
	}
	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, tep); err != nil {
		return fmt.Sprintf("A templating error has occurred: %v", err)
	}
	return buf.String()
}

/*

home page

*/

const (
	homePageCssFile = "/home.css"
	homePageJsFile  = "/home.js"
)

func init() {
	staticResourcePaths[homePageCssFile] = "static/home/home.css"
	staticResourcePaths[homePageJsFile] = "static/home/home.js"
}

// templateHomePage is the data passed to the home page template.
type templateHomePage struct {
	SessionID, PuzzleID, PuzzleName string
	Title, TopHead                  string
	IconFile, CssFile, JsFile       string
	Others                          []*storage.PuzzleInfo
	ApplicationFooter               string
}

// HomePage: executes the home page template over a session's
// puzzle list, returning the page content as a string.  The info
// argument describes the session's selected puzzle, the others
// are the rest of the session's puzzles.  On failure the error
// page content is returned instead.
func HomePage(sessionID string, info *storage.PuzzleInfo, others []*storage.PuzzleInfo) string {
	thp := templateHomePage{
		SessionID:         sessionID,
		PuzzleID:          info.PuzzleId,
		PuzzleName:        info.Name,
		Title:             fmt.Sprintf("%s: Home", brandName),
		TopHead:           fmt.Sprintf("%s Puzzles", brandName),
		IconFile:          iconPath,
		CssFile:           homePageCssFile,
		JsFile:            homePageJsFile,
		Others:            others,
		ApplicationFooter: applicationFooter(),
	}

	tmpl, err := loadPageTemplate("home")
	if err != nil {
		return ErrorPage(fmt.Errorf("Couldn't load the %q template: %v", "home", err))
	}
	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, thp); err != nil {
		return ErrorPage(err)
	}
	return buf.String()
}

/*

application footer

*/

// applicationFooter: the footer line shown on every page, which
// identifies the running deployment of the application.
func applicationFooter() string {
	name := os.Getenv(applicationNameEnvVar)
	if name == "" {
		name = brandName
	}
	env := os.Getenv(applicationEnvEnvVar)
	if env == "" {
		env = "local"
	}
	version := os.Getenv(applicationVersionEnvVar)
	build := os.Getenv(applicationBuildEnvVar)
	instance := os.Getenv(applicationInstanceEnvVar)
	if len(build) > 7 {
		build = build[:7]
	}

	switch env {
	case "local":
		return fmt.Sprintf("[%s local]", name)
	case "dev":
		return fmt.Sprintf("[%s CI/CD]", name)
	case "stg":
		return fmt.Sprintf("[%s %s <%s>]", name, version, build)
	case "prd":
		return fmt.Sprintf("[%s %s <%s> (dyno %s)]", name, version, build, instance)
	}
	return fmt.Sprintf("[%s <??>]", name)
}
