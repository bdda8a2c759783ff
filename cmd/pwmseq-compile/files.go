package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// fileWriter places the outputs generated from an input composition.
type fileWriter struct {
	Dir    string // output directory; the working directory if empty
	Name   string // output base name; the input base name if empty
	Safe   bool   // fail instead of overwriting a different file
	List   bool   // print the paths that would change instead of writing
	Stdout io.Writer
}

// newFileWriter interprets the -o flag: an existing directory, or a path whose
// directory and base name override the defaults.
func newFileWriter(outPath string) fileWriter {
	if outPath == "" {
		return fileWriter{}
	}
	if info, err := os.Stat(outPath); err == nil && info.IsDir() {
		return fileWriter{Dir: outPath}
	}
	dir, name := filepath.Split(outPath)
	return fileWriter{Dir: dir, Name: name}
}

// path returns where the output with the given extension, generated from
// input, goes.
func (w fileWriter) path(input, extension string) (string, error) {
	name := w.Name
	if name == "" {
		name = filepath.Base(input)
	}
	dir := w.Dir
	if dir == "" {
		var err error
		if dir, err = os.Getwd(); err != nil {
			return "", fmt.Errorf("could not get working directory, specify the output directory explicitly: %w", err)
		}
	}
	return filepath.Join(dir, strings.TrimSuffix(name, filepath.Ext(name))+extension), nil
}

func (w fileWriter) write(input, extension string, contents []byte) error {
	if w.Stdout != nil {
		_, err := w.Stdout.Write(contents)
		return err
	}
	f, err := w.path(input, extension)
	if err != nil {
		return err
	}
	if original, err := os.ReadFile(f); err == nil {
		if bytes.Equal(original, contents) {
			return nil
		}
		if !w.List && w.Safe {
			return fmt.Errorf("file %v would be overwritten by compiler", f)
		}
	}
	if w.List {
		fmt.Println(f)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(f), os.ModePerm); err != nil {
		return fmt.Errorf("could not create output directory %v: %w", filepath.Dir(f), err)
	}
	if err := os.WriteFile(f, contents, 0644); err != nil {
		return fmt.Errorf("could not write file %v: %w", f, err)
	}
	return nil
}

// compositionFiles expands a command line argument: a directory stands for
// the .yml and .json compositions in it.
func compositionFiles(param string) ([]string, error) {
	info, err := os.Stat(param)
	if err != nil || !info.IsDir() {
		return []string{param}, nil
	}
	var files []string
	for _, pattern := range []string{"*.yml", "*.json"} {
		matches, err := filepath.Glob(filepath.Join(param, pattern))
		if err != nil {
			return nil, fmt.Errorf("could not glob the path %v for %v files: %w", param, pattern, err)
		}
		files = append(files, matches...)
	}
	return files, nil
}
