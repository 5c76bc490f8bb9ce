// Package manifest loads and validates the per-repository .gitcha.yml file
// describing the candidate and the folder layout of their documents.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// The manifest is looked up under these names, in order, at the repository root.
var fileNames = []string{".gitcha.yml", ".gitcha.yaml"}

// DefaultOutputLang is the language letters are written in unless the
// manifest says otherwise.
const DefaultOutputLang = "English"

// ConfigError marks a fatal configuration problem: a missing manifest, a
// missing required field or an unparsable file.
type ConfigError struct {
	msg string
	err error
}

func (e *ConfigError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *ConfigError) Unwrap() error { return e.err }

// Address is the candidate's postal address. All fields are optional.
type Address struct {
	StreetAddress string `yaml:"street_address"`
	PostalCode    string `yaml:"postal_code"`
	City          string `yaml:"city"`
	Region        string `yaml:"region"`
	Country       string `yaml:"country"`
}

// Person holds the candidate biography. GivenName is the only required field.
type Person struct {
	GivenName  string `yaml:"given_name"`
	FamilyName string `yaml:"family_name"`
	Pronouns   string `yaml:"pronouns"`

	KnowsLanguage []string `yaml:"knows_language"`
	KnowsCoding   []string `yaml:"knows_coding"`

	Nationality string `yaml:"nationality"`
	Phone       string `yaml:"phone"`
	Email       string `yaml:"email"`
	BirthDate   string `yaml:"birth_date"`

	DesiredSalary       int    `yaml:"desired_salary"`
	HighestLvlEducation string `yaml:"highest_lvl_education"`

	Address *Address `yaml:"address"`

	Websites []string `yaml:"websites"`
}

// Folders names the document folders relative to the repository root. Loading
// fills in the conventional defaults for anything left unset.
type Folders struct {
	Public      string `yaml:"public_folder"`
	WorkHistory string `yaml:"work_history_folder"`
	Certs       string `yaml:"certificats_folder"`
	Projects    string `yaml:"projects_folder"`
	JobPostings string `yaml:"job_posting_folder"`

	OutputLang string `yaml:"output_lang"`
}

// Manifest is the parsed .gitcha.yml: the candidate plus the folder layout.
// It is immutable after Load.
type Manifest struct {
	Person `yaml:",inline"`

	Config *Folders `yaml:"config"`
}

// Load parses the manifest from the repository root. It returns a fully
// populated manifest with defaults applied, or a *ConfigError.
func Load(repoPath string) (*Manifest, error) {
	for _, name := range fileNames {
		path := filepath.Join(repoPath, name)

		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, &ConfigError{msg: fmt.Sprintf("reading %s", name), err: err}
		}

		return parse(data, name)
	}

	return nil, &ConfigError{msg: fmt.Sprintf("no .gitcha.yml file found under %s", repoPath)}
}

func parse(data []byte, name string) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, &ConfigError{msg: fmt.Sprintf("parsing %s", name), err: err}
	}

	if strings.TrimSpace(m.GivenName) == "" {
		return nil, &ConfigError{msg: "given_name is required in the gitcha file"}
	}

	if m.Config == nil {
		m.Config = &Folders{}
	}
	m.Config.applyDefaults()

	return &m, nil
}

func (f *Folders) applyDefaults() {
	if f.Public == "" {
		f.Public = "public"
	}
	if f.WorkHistory == "" {
		f.WorkHistory = "work_log"
	}
	if f.Certs == "" {
		f.Certs = "certs"
	}
	if f.Projects == "" {
		f.Projects = "projects"
	}
	if f.JobPostings == "" {
		f.JobPostings = "job_postings"
	}
	if f.OutputLang == "" {
		f.OutputLang = DefaultOutputLang
	}
}

// FullName returns the candidate's given and family name joined.
func (m *Manifest) FullName() string {
	return strings.TrimSpace(m.GivenName + " " + m.FamilyName)
}

// ContactInfo renders the candidate biography as a human-readable block used
// verbatim inside prompts. Field order and formatting are part of the
// contract: name, birth date, pronouns, languages, coding skills,
// nationality, education, phone, email, address.
func (m *Manifest) ContactInfo() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Full name: %s\n\n", m.FullName())

	if m.BirthDate != "" {
		fmt.Fprintf(&b, "Born: %s\n\n", m.BirthDate)
	}
	if m.Pronouns != "" {
		fmt.Fprintf(&b, "Pronouns: %s\n\n", m.Pronouns)
	}
	if len(m.KnowsLanguage) > 0 {
		fmt.Fprintf(&b, "Speaks languages: %s\n\n", strings.Join(m.KnowsLanguage, ", "))
	}
	if len(m.KnowsCoding) > 0 {
		fmt.Fprintf(&b, "Knows following programming languages: %s\n\n", strings.Join(m.KnowsCoding, ", "))
	}
	if m.Nationality != "" {
		fmt.Fprintf(&b, "Nationality: %s\n\n", m.Nationality)
	}
	if m.HighestLvlEducation != "" {
		fmt.Fprintf(&b, "Highest level of education: %s\n\n", m.HighestLvlEducation)
	}
	if m.Phone != "" {
		fmt.Fprintf(&b, "Phone number: %s\n\n", m.Phone)
	}
	if m.Email != "" {
		fmt.Fprintf(&b, "E-Mail: %s\n\n", m.Email)
	}
	if m.Address != nil {
		fmt.Fprintf(&b, "Hometown address: %s %s %s", m.Address.StreetAddress, m.Address.City, m.Address.Country)
	}

	return b.String()
}

// NormalizeFolder resolves a configured folder reference against the
// repository root. Leading slashes and hidden-file markers are stripped so a
// value like "/public" or "./certs" always lands inside the repository.
func NormalizeFolder(repoPath, folder string) string {
	name := "/" + strings.TrimLeft(folder, "/.")
	name = filepath.Clean(name)
	name = strings.TrimPrefix(name, "/")

	return filepath.Join(repoPath, name)
}
