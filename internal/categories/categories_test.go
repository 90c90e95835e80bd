package categories

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	result, err := Resolve("")
	require.NoError(t, err)
	require.Equal(t, DefaultCategories, result)

	// The returned slice is a copy.
	result[0].ClassID = 99
	require.Equal(t, 2, DefaultCategories[0].ClassID)
}

func TestDefaultCategoriesValid(t *testing.T) {
	require.NoError(t, Validate(DefaultCategories))

	lo, hi := DefaultCategories[0].InstanceRange()
	require.Equal(t, 3, lo)
	require.Equal(t, 8, hi)

	lo, hi = DefaultCategories[1].InstanceRange()
	require.Equal(t, 1, lo)
	require.Equal(t, 1, hi)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cats.yaml")
	content := `categories:
  - name: scratch
    dir: patches/scratch
    class_id: 0
    multi: true
  - name: crack
    dir: /abs/cracks
    class_id: 1
    multi: true
    min_instances: 1
    max_instances: 2
  - name: stain
    dir: patches/stain
    class_id: 4
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cats, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, cats, 3)

	require.Equal(t, "scratch", cats[0].Name)
	lo, hi := cats[0].InstanceRange()
	require.Equal(t, DefaultMinInstances, lo, "multi without a range gets the default")
	require.Equal(t, DefaultMaxInstances, hi)

	lo, hi = cats[1].InstanceRange()
	require.Equal(t, 1, lo)
	require.Equal(t, 2, hi)

	require.False(t, cats[2].Multi)
	require.Equal(t, 4, cats[2].ClassID)
}

func TestLoadFileInvalid(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"dup.yaml":      "categories:\n  - {name: a, dir: x, class_id: 0}\n  - {name: a, dir: y, class_id: 1}\n",
		"nodir.yaml":    "categories:\n  - {name: a, class_id: 0}\n",
		"negative.yaml": "categories:\n  - {name: a, dir: x, class_id: -1}\n",
		"range.yaml":    "categories:\n  - {name: a, dir: x, multi: true, min_instances: 5, max_instances: 2}\n",
		"empty.yaml":    "categories: []\n",
		"syntax.yaml":   "categories: [\n",
	}
	for name, content := range cases {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		_, err := LoadFile(path)
		require.Error(t, err, name)
	}

	_, err := LoadFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

func TestLoadCustomCategories(t *testing.T) {
	tmpHome := t.TempDir()
	t.Setenv("HOME", tmpHome)

	dir := filepath.Join(tmpHome, ".defectgen")
	require.NoError(t, os.MkdirAll(dir, 0755))
	content := "categories:\n  - name: knot\n    dir: patches/knots\n    class_id: 5\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "categories.yaml"), []byte(content), 0644))

	cats, err := LoadCustomCategories()
	require.NoError(t, err)
	require.Equal(t, []Category{{Name: "knot", Dir: "patches/knots", ClassID: 5}}, cats)

	resolved, err := Resolve("")
	require.NoError(t, err)
	require.Equal(t, cats, resolved)
}

func TestLoadCustomCategoriesNoFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cats, err := LoadCustomCategories()
	require.NoError(t, err)
	require.Nil(t, cats)
}

func TestWithInstanceRange(t *testing.T) {
	cats, err := WithInstanceRange(DefaultCategories, 1, 2)
	require.NoError(t, err)

	lo, hi := cats[0].InstanceRange()
	require.Equal(t, 1, lo)
	require.Equal(t, 2, hi)
	lo, hi = cats[1].InstanceRange()
	require.Equal(t, 1, lo, "single-instance categories are unaffected")
	require.Equal(t, 1, hi)
	require.Equal(t, DefaultMaxInstances, DefaultCategories[0].MaxInstances)

	_, err = WithInstanceRange(DefaultCategories, 0, 2)
	require.Error(t, err)
}
