package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obianom/cloudrig/pipeline"
)

func TestArtifactNameValidation(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"SourceArtifact", false},
		{"build-output_2", false},
		{"", true},
		{"has space", true},
		{"colons::bad", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := pipeline.NewArtifact(tt.name)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestArtifactPathFormatting(t *testing.T) {
	a, err := pipeline.NewArtifact("BuildArtifact")
	require.NoError(t, err)

	p := a.AtPath("nested/appspec.yaml")
	assert.Equal(t, "BuildArtifact::nested/appspec.yaml", p.Location())
	assert.Equal(t, "nested/appspec.yaml", p.ObjectKey())
	assert.Same(t, a, p.Artifact())

	assert.Equal(t, "rooted.zip", a.AtPath("/rooted.zip").ObjectKey())
}

func TestArtifactSetDeduplicatesByName(t *testing.T) {
	s := pipeline.NewSet()

	first, err := s.Get("SourceArtifact")
	require.NoError(t, err)
	again, err := s.Get("SourceArtifact")
	require.NoError(t, err)
	assert.Same(t, first, again)

	_, err = s.Get("BuildArtifact")
	require.NoError(t, err)
	assert.Equal(t, []string{"SourceArtifact", "BuildArtifact"}, s.Names())

	_, err = s.Get("not valid!")
	assert.Error(t, err)
	assert.Equal(t, []string{"SourceArtifact", "BuildArtifact"}, s.Names())
}
