package program

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/duet/instr"
)

// Program is a named, parsed instruction sequence.
type Program struct {
	Name         string
	Instructions []instr.Inst
}

// yamlProgram is the on-disk YAML layout:
//
//	name: example
//	instructions:
//	  - snd 1
//	  - rcv a
type yamlProgram struct {
	Name         string   `yaml:"name"`
	Instructions []string `yaml:"instructions"`
}

// Load reads a program file, choosing the format from the extension.
// .yaml and .yml are YAML documents, anything else is plain program text.
func Load(path string) (Program, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadProgramFileFromYAML(path)
	default:
		return LoadProgramFile(path)
	}
}

// LoadProgramFile reads plain program text from path.
func LoadProgramFile(path string) (Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Program{}, fmt.Errorf("read program %s: %w", path, err)
	}

	insts, err := Parse(string(data))
	if err != nil {
		return Program{}, fmt.Errorf("parse program %s: %w", path, err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	return Program{Name: name, Instructions: insts}, nil
}

// LoadProgramFileFromYAML reads a YAML program document from path.
func LoadProgramFileFromYAML(path string) (Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Program{}, fmt.Errorf("read program %s: %w", path, err)
	}

	return ParseYAML(data)
}

// ParseYAML decodes a YAML program document.
func ParseYAML(data []byte) (Program, error) {
	var doc yamlProgram
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Program{}, fmt.Errorf("decode yaml program: %w", err)
	}

	insts, err := Parse(strings.Join(doc.Instructions, "\n"))
	if err != nil {
		return Program{}, fmt.Errorf("parse yaml program %q: %w", doc.Name, err)
	}

	return Program{Name: doc.Name, Instructions: insts}, nil
}
