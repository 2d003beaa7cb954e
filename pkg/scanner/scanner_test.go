package scanner

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFixture creates a file under dir, creating parent directories.
func writeFixture(t *testing.T, dir, name string, content []byte) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, content, 0o644))
}

func defaultTestOptions(dir string) Options {
	return Options{
		Directory:        dir,
		Extensions:       []string{"py", "js"},
		Recursive:        true,
		IncludeStructure: true,
		MaxFileSizeKB:    1024,
	}
}

func TestScanProducesMarkdownDocument(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "main.py", []byte("print('hello')\n"))
	writeFixture(t, dir, "app.js", []byte("console.log(1);\n"))
	writeFixture(t, dir, "sub/util.py", []byte("def util():\n    pass\n"))
	writeFixture(t, dir, "README.md", []byte("# readme\n"))

	s, err := New(defaultTestOptions(dir), nil)
	require.NoError(t, err)
	document, err := s.Scan()
	require.NoError(t, err)

	assert.Contains(t, document, "# Repository Structure")
	assert.Contains(t, document, "* main.py")
	assert.Contains(t, document, "* **sub/**")
	assert.Contains(t, document, "  * util.py")

	assert.Contains(t, document, "# main.py\n```py\nprint('hello')\n")
	assert.Contains(t, document, "# app.js\n```js\nconsole.log(1);\n")
	assert.Contains(t, document, "# sub/util.py\n```py\ndef util():\n")

	// README.md is outside the extension include set.
	assert.NotContains(t, document, "readme")
}

func TestScanOrdersFilesDeterministically(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "zeta.py", []byte("z = 1\n"))
	writeFixture(t, dir, "alpha.py", []byte("a = 1\n"))

	s, err := New(defaultTestOptions(dir), nil)
	require.NoError(t, err)
	document, err := s.Scan()
	require.NoError(t, err)

	alphaIndex := strings.Index(document, "# alpha.py")
	zetaIndex := strings.Index(document, "# zeta.py")
	require.GreaterOrEqual(t, alphaIndex, 0)
	require.GreaterOrEqual(t, zetaIndex, 0)
	assert.Less(t, alphaIndex, zetaIndex)
}

func TestScanRespectsGitignore(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, ".gitignore", []byte("build/\nsecret.py\n"))
	writeFixture(t, dir, "main.py", []byte("print('ok')\n"))
	writeFixture(t, dir, "secret.py", []byte("token = 'hush'\n"))
	writeFixture(t, dir, "build/gen.py", []byte("generated = True\n"))

	s, err := New(defaultTestOptions(dir), nil)
	require.NoError(t, err)
	document, err := s.Scan()
	require.NoError(t, err)

	assert.Contains(t, document, "# main.py")
	assert.NotContains(t, document, "secret.py")
	assert.NotContains(t, document, "gen.py")
}

func TestScanNoGitignoreDisablesRules(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, ".gitignore", []byte("build/\n"))
	writeFixture(t, dir, "build/gen.py", []byte("generated = True\n"))

	opts := defaultTestOptions(dir)
	opts.NoGitignore = true
	s, err := New(opts, nil)
	require.NoError(t, err)
	document, err := s.Scan()
	require.NoError(t, err)

	assert.Contains(t, document, "# build/gen.py")
}

func TestScanExplicitGitignoreFiles(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "main.py", []byte("print('ok')\n"))
	writeFixture(t, dir, "skipme.py", []byte("x = 1\n"))

	rulesDir := t.TempDir()
	rulesPath := filepath.Join(rulesDir, "extra-ignores")
	require.NoError(t, os.WriteFile(rulesPath, []byte("skipme.py\n"), 0o644))

	opts := defaultTestOptions(dir)
	opts.GitignoreFiles = []string{rulesPath}
	s, err := New(opts, nil)
	require.NoError(t, err)
	document, err := s.Scan()
	require.NoError(t, err)

	assert.Contains(t, document, "# main.py")
	assert.NotContains(t, document, "skipme.py")
}

func TestScanExcludePatternsAndExtensions(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "main.py", []byte("print('ok')\n"))
	writeFixture(t, dir, "test_main.py", []byte("assert True\n"))
	writeFixture(t, dir, "widget.spec.js", []byte("describe();\n"))
	writeFixture(t, dir, "widget.js", []byte("render();\n"))

	opts := defaultTestOptions(dir)
	opts.ExcludePatterns = []string{"test_"}
	opts.ExcludeExtensions = []string{".spec.js"}
	s, err := New(opts, nil)
	require.NoError(t, err)
	document, err := s.Scan()
	require.NoError(t, err)

	assert.Contains(t, document, "# main.py")
	assert.Contains(t, document, "# widget.js")
	assert.NotContains(t, document, "test_main.py")
	assert.NotContains(t, document, "widget.spec.js")
}

func TestScanExcludePatternsIgnoreDirectoriesAboveTree(t *testing.T) {
	// The directories leading up to the scanned tree must not trigger
	// substring excludes, no matter what the workspace path looks like.
	dir := filepath.Join(t.TempDir(), "test_projects", "repo")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	writeFixture(t, dir, "main.py", []byte("print('ok')\n"))
	writeFixture(t, dir, "test_utils/helper.py", []byte("pass\n"))

	opts := defaultTestOptions(dir)
	opts.ExcludePatterns = []string{"test_"}
	s, err := New(opts, nil)
	require.NoError(t, err)
	document, err := s.Scan()
	require.NoError(t, err)

	assert.Contains(t, document, "# main.py")
	assert.NotContains(t, document, "helper.py")
}

func TestScanSkipsBinaryAndOversizedFiles(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "main.py", []byte("print('ok')\n"))
	writeFixture(t, dir, "blob.py", []byte{0x00, 0x01, 0x02, 0xff})
	writeFixture(t, dir, "big.py", []byte(strings.Repeat("x = 1\n", 400)))

	opts := defaultTestOptions(dir)
	opts.MaxFileSizeKB = 1
	s, err := New(opts, nil)
	require.NoError(t, err)
	document, err := s.Scan()
	require.NoError(t, err)

	assert.Contains(t, document, "# main.py")
	assert.NotContains(t, document, "blob.py")
	assert.NotContains(t, document, "big.py")
}

func TestScanNonRecursive(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "main.py", []byte("print('ok')\n"))
	writeFixture(t, dir, "sub/util.py", []byte("pass\n"))

	opts := defaultTestOptions(dir)
	opts.Recursive = false
	opts.IncludeStructure = false
	s, err := New(opts, nil)
	require.NoError(t, err)
	document, err := s.Scan()
	require.NoError(t, err)

	assert.Contains(t, document, "# main.py")
	assert.NotContains(t, document, "util.py")
}

func TestScanWithoutStructureSection(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "main.py", []byte("print('ok')\n"))

	opts := defaultTestOptions(dir)
	opts.IncludeStructure = false
	s, err := New(opts, nil)
	require.NoError(t, err)
	document, err := s.Scan()
	require.NoError(t, err)

	assert.NotContains(t, document, "# Repository Structure")
	assert.True(t, strings.HasPrefix(document, "# main.py\n"))
}

func TestNewRejectsMissingDirectory(t *testing.T) {
	opts := defaultTestOptions(filepath.Join(t.TempDir(), "absent"))
	_, err := New(opts, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestNewRejectsFileArgument(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "main.py", []byte("print('ok')\n"))

	opts := defaultTestOptions(filepath.Join(dir, "main.py"))
	_, err := New(opts, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}
