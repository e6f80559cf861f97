package scanners

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gobwas/glob"
	"github.com/stretchr/testify/assert"

	"github.com/convlint/convlint/extractors"
)

func writeFile(t *testing.T, dir string, name string, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	assert.Nil(t, os.MkdirAll(filepath.Dir(path), 0755))
	assert.Nil(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestTraverseAndExtractProducesOneFactsPerSourceFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app.py", "def work(x: int) -> int:\n    return x\n")
	writeFile(t, dir, "sub/helper.py", "import os\n")
	writeFile(t, dir, "README.md", "not python\n")

	fileScanner := FsFileScanner{Extractors: extractors.InitializeExtractors()}

	facts, scanErrors, err := fileScanner.TraverseAndExtract(dir, "some-repo")

	assert.Nil(t, err)
	assert.Empty(t, scanErrors)
	assert.Len(t, facts, 2)
	for _, fileFacts := range facts {
		assert.Equal(t, "some-repo", fileFacts.RepoName)
	}
}

func TestTraverseAndExtractRecordsUnreadableFilesAndContinues(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app.py", "import os\n")
	// A dangling symlink is unreadable regardless of who runs the tests.
	assert.Nil(t, os.Symlink(filepath.Join(dir, "missing.py"), filepath.Join(dir, "broken.py")))

	fileScanner := FsFileScanner{Extractors: extractors.InitializeExtractors()}

	facts, scanErrors, err := fileScanner.TraverseAndExtract(dir, "some-repo")

	assert.Nil(t, err)
	assert.Len(t, facts, 1)
	assert.Len(t, scanErrors, 1)
	assert.Contains(t, scanErrors[0].Path, "broken.py")
}

func TestTraverseAndExtractHonoursExcludes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app.py", "import os\n")
	writeFile(t, dir, "vendor/dep.py", "import os\n")

	fileScanner := FsFileScanner{
		Extractors: extractors.InitializeExtractors(),
		Excludes:   []glob.Glob{glob.MustCompile("*vendor*")},
	}

	facts, scanErrors, err := fileScanner.TraverseAndExtract(dir, "some-repo")

	assert.Nil(t, err)
	assert.Empty(t, scanErrors)
	assert.Len(t, facts, 1)
	assert.Contains(t, facts[0].Path, "app.py")
}

func TestTraverseAndExtractFailsOnMissingTarget(t *testing.T) {
	fileScanner := FsFileScanner{Extractors: extractors.InitializeExtractors()}

	_, _, err := fileScanner.TraverseAndExtract("/no/such/directory", "some-repo")

	assert.NotNil(t, err)
}
