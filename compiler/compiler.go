package compiler

import (
	"bytes"
	"embed"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig"
	"github.com/vsariola/pwmseq"
)

type Compiler struct {
	Template *template.Template
	// Package is the package clause of the generated Go source.
	Package string
	// Listing adds the disassembly of each instruction as a comment.
	Listing bool
}

//go:embed templates/*
var templateFS embed.FS

// Templates are the templates executed for a composition, in output order.
// The extension of the output is the template name without a .tmpl suffix.
var Templates = []string{"musicdata.h", "musicdata.go.tmpl"}

// New returns a new compiler using the default templates
func New(pkg string) (*Compiler, error) {
	tmpl, err := template.New("base").Funcs(sprig.TxtFuncMap()).ParseFS(templateFS, "templates/*")
	if err != nil {
		return nil, fmt.Errorf(`could not create templates: %v`, err)
	}
	return &Compiler{Template: tmpl, Package: pkg}, nil
}

func NewFromTemplates(pkg string, templateDirectory string) (*Compiler, error) {
	globPtrn := filepath.Join(templateDirectory, "*.*")
	tmpl, err := template.New("base").Funcs(sprig.TxtFuncMap()).ParseGlob(globPtrn)
	if err != nil {
		return nil, fmt.Errorf(`could not create template based on directory "%v": %v`, templateDirectory, err)
	}
	return &Compiler{Template: tmpl, Package: pkg}, nil
}

// Composition renders the composition with every template that is defined,
// returning the outputs keyed by extension, e.g. ".h" and ".go". name is used
// for the identifiers of the generated code.
func (com *Compiler) Composition(c pwmseq.Composition, name string) (map[string]string, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf(`could not compile composition: %v`, err)
	}
	encoded := EncodeComposition(c)
	retmap := map[string]string{}
	for _, templateName := range Templates {
		if com.Template.Lookup(templateName) == nil {
			continue
		}
		macros := NewCompositionMacros(*com, c, encoded, name)
		populatedTemplate, extension, err := com.compile(templateName, macros)
		if err != nil {
			return nil, fmt.Errorf(`could not execute template "%v": %v`, templateName, err)
		}
		retmap[extension] = populatedTemplate
	}
	if len(retmap) == 0 {
		return nil, fmt.Errorf(`none of the templates %v found`, Templates)
	}
	return retmap, nil
}

func (com *Compiler) compile(templateName string, data interface{}) (string, string, error) {
	result := bytes.NewBufferString("")
	err := com.Template.ExecuteTemplate(result, templateName, data)
	extension := filepath.Ext(strings.TrimSuffix(templateName, ".tmpl"))
	return result.String(), extension, err
}
