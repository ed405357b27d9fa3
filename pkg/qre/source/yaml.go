package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/golang/glog"
	"gopkg.in/yaml.v3"

	"github.com/komsit37/qre/pkg/qre/types"
)

// YAMLSource loads and saves quote documents as YAML files.
type YAMLSource struct{}

// file is the on-disk layout.
type file struct {
	Date   string  `yaml:"date,omitempty"`
	Quotes []quote `yaml:"quotes"`
}

type quote struct {
	Name    string      `yaml:"name"`
	Price   string      `yaml:"price,omitempty"`
	EPrice  []value     `yaml:"e_price,omitempty"`
	EPS     []yearGroup `yaml:"eps,omitempty"`
	PE      []value     `yaml:"pe,omitempty"`
	Record  []event     `yaml:"record,omitempty"`
	Sectors []sector    `yaml:"sectors,omitempty"`
}

type value struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

type yearGroup struct {
	Year      string        `yaml:"year"`
	Companies []yearCompany `yaml:"companies"`
}

type yearCompany struct {
	Name   string `yaml:"name"`
	Value  string `yaml:"value,omitempty"`
	Growth string `yaml:"growth,omitempty"`
}

type event struct {
	Company string `yaml:"company"`
	Date    string `yaml:"date"`
	Color   string `yaml:"color,omitempty"`
}

type sector struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// Load expects spec to be a string filepath. A directory loads every YAML
// file below it and merges the quotes into one document.
func (YAMLSource) Load(ctx context.Context, spec any) (*types.Document, error) { //nolint:revive // ctx reserved for future use
	path, ok := spec.(string)
	if !ok {
		return nil, fmt.Errorf("yaml source expects filepath string spec")
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		data, err := readFile(path)
		if err != nil {
			return nil, err
		}
		return parseYAML(data)
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(d.Name()))
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	doc := types.NewDocument("")
	for _, full := range files {
		data, err := readFile(full)
		if err != nil {
			return nil, err
		}
		part, err := parseYAML(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", full, err)
		}
		if doc.GlobalDate == "" {
			doc.GlobalDate = part.GlobalDate
		}
		for k, r := range part.Records {
			if _, dup := doc.Records[k]; dup {
				return nil, fmt.Errorf("%s: quote %q defined twice", full, k)
			}
			doc.Records[k] = r
		}
		glog.V(1).Infof("[source] %s: %d quotes", full, len(part.Records))
	}
	return doc, nil
}

// Save writes doc to the filepath spec, replacing it atomically.
func (YAMLSource) Save(ctx context.Context, doc *types.Document, spec any) error { //nolint:revive
	path, ok := spec.(string)
	if !ok {
		return fmt.Errorf("yaml source expects filepath string spec")
	}
	data, err := marshalYAML(doc)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("save %s: %w", path, err)
	}
	glog.V(1).Infof("[source] saved %d quotes to %s", len(doc.Records), path)
	return nil
}

func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// parseYAML decodes one file into a document. Unknown keys are rejected.
func parseYAML(data []byte) (*types.Document, error) {
	var f file
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, err
	}
	doc := types.NewDocument(f.Date)
	for i, q := range f.Quotes {
		name := strings.TrimSpace(q.Name)
		if name == "" {
			return nil, fmt.Errorf("quote #%d: missing name", i+1)
		}
		if _, dup := doc.Records[name]; dup {
			return nil, fmt.Errorf("quote %q defined twice", name)
		}
		r, err := toRecord(name, q)
		if err != nil {
			return nil, fmt.Errorf("quote %q: %w", name, err)
		}
		doc.Records[name] = r
	}
	return doc, nil
}

func toRecord(name string, q quote) (*types.Record, error) {
	r := types.NewRecord(name)
	r.Price = q.Price
	for _, v := range q.EPrice {
		r.EPrice = append(r.EPrice, &types.ValueEntry{Name: v.Name, Value: v.Value})
	}
	for _, v := range q.PE {
		r.PE = append(r.PE, &types.ValueEntry{Name: v.Name, Value: v.Value})
	}
	for _, y := range q.EPS {
		if r.FindYear(y.Year) != nil {
			return nil, fmt.Errorf("eps year %q defined twice", y.Year)
		}
		g := &types.YearGroup{Name: y.Year}
		for _, c := range y.Companies {
			g.Companies = append(g.Companies, &types.CompanyYearEntry{Name: c.Name, Value: c.Value, Growth: c.Growth})
		}
		r.EPS = append(r.EPS, g)
	}
	sort.SliceStable(r.EPS, func(i, j int) bool { return types.YearLess(r.EPS[i].Name, r.EPS[j].Name) })
	for _, e := range q.Record {
		color := e.Color
		if color == "" {
			color = types.DefaultEventColor
		}
		r.Events = append(r.Events, &types.ReportEvent{Company: e.Company, Date: e.Date, Color: color})
	}
	for _, s := range q.Sectors {
		t := types.SectorType(s.Type)
		if !t.Valid() {
			return nil, fmt.Errorf("sector %q: type must be main or sub, got %q", s.Name, s.Type)
		}
		r.Sectors = append(r.Sectors, &types.SectorTag{Name: s.Name, Type: t})
	}
	return r, nil
}

func marshalYAML(doc *types.Document) ([]byte, error) {
	f := file{Date: doc.GlobalDate}
	for _, k := range doc.Keys() {
		r := doc.Records[k]
		q := quote{Name: k, Price: r.Price}
		for _, v := range r.EPrice {
			q.EPrice = append(q.EPrice, value{Name: v.Name, Value: v.Value})
		}
		for _, v := range r.PE {
			q.PE = append(q.PE, value{Name: v.Name, Value: v.Value})
		}
		for _, y := range r.EPS {
			g := yearGroup{Year: y.Name}
			for _, c := range y.Companies {
				g.Companies = append(g.Companies, yearCompany{Name: c.Name, Value: c.Value, Growth: c.Growth})
			}
			q.EPS = append(q.EPS, g)
		}
		for _, e := range r.Events {
			q.Record = append(q.Record, event{Company: e.Company, Date: e.Date, Color: e.Color})
		}
		for _, s := range r.Sectors {
			q.Sectors = append(q.Sectors, sector{Name: s.Name, Type: string(s.Type)})
		}
		f.Quotes = append(f.Quotes, q)
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
