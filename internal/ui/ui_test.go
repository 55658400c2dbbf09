package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/locallibrary/internal/entities"
)

func TestTemplates_DefinesEveryView(t *testing.T) {
	tmpl, err := Templates("")
	require.NoError(t, err)

	views := []string{"index", "error", "audit_list"}
	for _, kind := range []string{"author", "genre", "book", "bookinstance"} {
		for _, suffix := range []string{"_list", "_detail", "_form", "_delete"} {
			views = append(views, kind+suffix)
		}
	}
	for _, name := range views {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
}

func TestTemplates_FromDirectory(t *testing.T) {
	_, err := Templates(t.TempDir())
	assert.Error(t, err, "an empty directory has no views")

	tmpl, err := Templates("templates")
	require.NoError(t, err)
	assert.NotNil(t, tmpl.Lookup("index"))
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "text-success", statusClass(entities.StatusAvailable))
	assert.Equal(t, "text-danger", statusClass(entities.StatusMaintenance))
	assert.Equal(t, "text-warning", statusClass(entities.StatusLoaned))
}

func TestPlain(t *testing.T) {
	plain := FuncMap()["plain"].(func(string) string)
	assert.Equal(t, "Tom & Jerry's", plain("Tom &amp; Jerry&#x27;s"))
}
