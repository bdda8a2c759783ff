package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/vsariola/pwmseq"
	"github.com/vsariola/pwmseq/compiler"
	"github.com/vsariola/pwmseq/version"
	"github.com/vsariola/pwmseq/vm"
)

// loopLimit bounds the simulation of -i; compositions longer than this are
// reported as not looping.
const loopLimit = 100_000_000

func filterExtensions(input map[string]string, extensions []string) map[string]string {
	ret := map[string]string{}
	for _, ext := range extensions {
		extWithDot := "." + ext
		if inputVal, ok := input[extWithDot]; ok {
			ret[extWithDot] = inputVal
		}
	}
	return ret
}

func main() {
	safe := flag.Bool("n", false, "Never overwrite files; if file already exists and would be overwritten, give an error.")
	list := flag.Bool("l", false, "Do not write files; just list files that would change instead.")
	stdout := flag.Bool("s", false, "Do not write files; write to standard output instead.")
	help := flag.Bool("h", false, "Show help.")
	jsonOut := flag.Bool("j", false, "Output the composition as .json file instead of compiling.")
	yamlOut := flag.Bool("y", false, "Output the composition as .yml file instead of compiling.")
	disasm := flag.Bool("d", false, "Print the disassembly of each sequence instead of compiling.")
	info := flag.Bool("i", false, "Print a summary of each composition instead of compiling.")
	listing := flag.Bool("L", false, "Comment each instruction of the compiled tables with its disassembly.")
	pkg := flag.String("p", "music", "Package of the compiled .go file.")
	tmplDir := flag.String("t", "", "When compiling, use the templates in this directory instead of the standard templates.")
	outPath := flag.String("o", "", "Directory or filename where to write compiled code. Extension is ignored. Directory and its parents are created if needed. By default, everything is placed in the current working directory.")
	extensionsOut := flag.String("e", "", "Output only the compiled files with these comma separated extensions. For example: h,go")
	tick := flag.Duration("tick", vm.DefaultTickPeriod, "Tick length used by -i to compute durations.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.String("pwmseq-compile"))
		os.Exit(0)
	}
	if flag.NArg() == 0 || *help {
		flag.Usage()
		os.Exit(0)
	}
	compile := !*jsonOut && !*yamlOut && !*disasm && !*info // if the user gives nothing to output, then the default behaviour is to compile the file
	var comp *compiler.Compiler
	if compile {
		var err error
		if *tmplDir != "" {
			comp, err = compiler.NewFromTemplates(*pkg, *tmplDir)
		} else {
			comp, err = compiler.New(*pkg)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "error creating compiler: %v\n", err)
			os.Exit(1)
		}
		comp.Listing = *listing
	}
	printer := message.NewPrinter(language.English)
	title := cases.Title(language.English)
	writer := newFileWriter(*outPath)
	writer.Safe = *safe
	writer.List = *list
	if *stdout {
		writer.Stdout = os.Stdout
	}
	output := writer.write
	process := func(filename string) error {
		composition, err := pwmseq.LoadComposition(filename)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
		if compile {
			compiled, err := comp.Composition(composition, name)
			if err != nil {
				return fmt.Errorf("compiling composition failed: %v", err)
			}
			if len(*extensionsOut) > 0 {
				compiled = filterExtensions(compiled, strings.Split(*extensionsOut, ","))
			}
			for extension, code := range compiled {
				if err := output(filename, extension, []byte(code)); err != nil {
					return fmt.Errorf("error outputting %v file: %v", extension, err)
				}
			}
		}
		if *jsonOut {
			jsonComposition, err := json.Marshal(composition)
			if err != nil {
				return fmt.Errorf("could not marshal the composition as json file: %v", err)
			}
			if err := output(filename, ".json", jsonComposition); err != nil {
				return fmt.Errorf("error outputting json file: %v", err)
			}
		}
		if *yamlOut {
			yamlComposition, err := yaml.Marshal(composition)
			if err != nil {
				return fmt.Errorf("could not marshal the composition as yaml file: %v", err)
			}
			if err := output(filename, ".yml", yamlComposition); err != nil {
				return fmt.Errorf("error outputting yaml file: %v", err)
			}
		}
		if *disasm {
			for i, s := range composition.Sequences {
				fmt.Printf("%v: channel %v\n", filename, i)
				for _, instr := range vm.Disassemble(s) {
					fmt.Printf("%6d  %v\n", instr.Position, instr)
				}
			}
		}
		if *info {
			printInfo(printer, title, filename, composition, *tick)
		}
		return nil
	}
	retval := 0
	for _, param := range flag.Args() {
		files, err := compositionFiles(param)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			retval = 1
			continue
		}
		for _, file := range files {
			if err := process(file); err != nil {
				fmt.Fprintf(os.Stderr, "could not process file %v: %v\n", file, err)
				retval = 1
			}
		}
	}
	os.Exit(retval)
}

func printInfo(p *message.Printer, title cases.Caser, filename string, c pwmseq.Composition, tick time.Duration) {
	encoded := compiler.EncodeComposition(c)
	p.Printf("%v: %d channels, rhythm unit %d, %d words (%d after reuse)\n", filename, len(c.Sequences), c.RhythmUnit, c.NumWords(), encoded.NumWords())
	if ticks, ok := vm.LoopLength(c, loopLimit); ok {
		p.Printf("  loops every %d ticks (%v)\n", ticks, time.Duration(ticks)*tick)
	} else {
		p.Printf("  does not loop within %d ticks\n", loopLimit)
	}
	for i, s := range c.Sequences {
		instruments := map[string]bool{}
		var names []string
		malformed := 0
		instrs := vm.Disassemble(s)
		for _, instr := range instrs {
			if instr.Malformed {
				malformed++
			}
			if instrument, ok := instr.Instrument(); ok {
				name := title.String(instrument.String())
				if !instruments[name] {
					instruments[name] = true
					names = append(names, name)
				}
			}
		}
		p.Printf("  channel %d: %d words, %d instructions, %d malformed, instruments: %v\n", i, len(s), len(instrs), malformed, strings.Join(names, ", "))
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "pwmseq compiler. Input .yml or .json compositions, outputs compiled compositions (.h and .go files).\nUsage: %s [flags] [path ...]\n", os.Args[0])
	flag.PrintDefaults()
}
