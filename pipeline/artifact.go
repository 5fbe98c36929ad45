package pipeline

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aws/aws-cdk-go/awscdk/v2/awscodepipeline"
	"github.com/aws/jsii-runtime-go"
)

var artifactNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Artifact names a unit of work passed between pipeline stages. The
// underlying CodePipeline artifact is created on first use so an
// Artifact can be declared before any stage references it.
type Artifact struct {
	name string
	cp   awscodepipeline.Artifact
}

// NewArtifact validates the name against the characters CodePipeline
// accepts.
func NewArtifact(name string) (*Artifact, error) {
	if !artifactNamePattern.MatchString(name) {
		return nil, fmt.Errorf("artifact name %q may only contain letters, digits, _ and -", name)
	}
	return &Artifact{name: name}, nil
}

// Name returns the artifact name.
func (a *Artifact) Name() string {
	return a.name
}

// AtPath addresses a single file inside the artifact.
func (a *Artifact) AtPath(fileName string) *ArtifactPath {
	return &ArtifactPath{artifact: a, fileName: fileName}
}

// CodePipeline returns the wrapped CodePipeline artifact, creating it
// on first call.
func (a *Artifact) CodePipeline() awscodepipeline.Artifact {
	if a.cp == nil {
		a.cp = awscodepipeline.NewArtifact(jsii.String(a.name))
	}
	return a.cp
}

// ArtifactPath points at one file within an artifact.
type ArtifactPath struct {
	artifact *Artifact
	fileName string
}

// Artifact returns the owning artifact.
func (p *ArtifactPath) Artifact() *Artifact {
	return p.artifact
}

// FileName returns the path within the artifact.
func (p *ArtifactPath) FileName() string {
	return p.fileName
}

// Location renders the "<artifact>::<file>" form actions use to
// address files across artifacts.
func (p *ArtifactPath) Location() string {
	return p.artifact.name + "::" + p.fileName
}

// ObjectKey returns the path with leading slashes trimmed, as it
// appears under the artifact's prefix in the artifact bucket.
func (p *ArtifactPath) ObjectKey() string {
	return strings.TrimLeft(p.fileName, "/")
}

// Set registers artifacts by name. Declaring the same name twice
// yields the same artifact, so stages wired independently still share
// outputs.
type Set struct {
	byName map[string]*Artifact
	order  []string
}

// NewSet returns an empty artifact set.
func NewSet() *Set {
	return &Set{byName: make(map[string]*Artifact)}
}

// Get returns the artifact registered under name, creating it if
// needed.
func (s *Set) Get(name string) (*Artifact, error) {
	if a, ok := s.byName[name]; ok {
		return a, nil
	}
	a, err := NewArtifact(name)
	if err != nil {
		return nil, err
	}
	s.byName[name] = a
	s.order = append(s.order, name)
	return a, nil
}

// Names lists registered artifact names in declaration order.
func (s *Set) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
