package extractors

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/convlint/convlint/core"
)

func extract(t *testing.T, path string, content string) core.FileFacts {
	t.Helper()
	extractor := NewPythonSourceExtractor()
	facts, err := extractor.Extract(path, "some-repo", content)
	assert.Nil(t, err)
	return facts
}

func TestSupportsPythonFilesOnly(t *testing.T) {
	extractor := NewPythonSourceExtractor()

	assert.True(t, extractor.Supports("/repo/app/widget.py"))
	assert.False(t, extractor.Supports("/repo/app/widget.go"))
	assert.False(t, extractor.Supports("/repo/.git/hooks/sample.py"))
}

func TestAnnotatedFunction(t *testing.T) {
	content := `
def annotated(x: int, y: str = "a") -> int:
    return x
`
	facts := extract(t, "/repo/app.py", content)

	assert.Len(t, facts.Functions, 1)
	assert.True(t, facts.Functions[0].Annotated)
	assert.Empty(t, facts.Functions[0].MissingAnnotations)
}

func TestUnannotatedFunctionReportsEachParameter(t *testing.T) {
	content := `
def unannotated(x, y):
    return x
`
	facts := extract(t, "/repo/app.py", content)

	assert.Len(t, facts.Functions, 1)
	fn := facts.Functions[0]
	assert.False(t, fn.Annotated)
	assert.Equal(t, []string{"x", "y", "return"}, fn.MissingAnnotations)
	assert.Equal(t, 2, fn.Line)
}

func TestBracketedAnnotationsSurviveSplitting(t *testing.T) {
	content := `
def lookup(table: Dict[str, int], key: str) -> int:
    return table[key]
`
	facts := extract(t, "/repo/app.py", content)

	assert.Len(t, facts.Functions, 1)
	assert.True(t, facts.Functions[0].Annotated)
}

func TestMultilineSignature(t *testing.T) {
	content := `
def configure(
    host: str,
    port: int,
) -> None:
    pass
`
	facts := extract(t, "/repo/app.py", content)

	assert.Len(t, facts.Functions, 1)
	assert.True(t, facts.Functions[0].Annotated)
	assert.Equal(t, 2, facts.Functions[0].Line)
}

func TestInitIsExemptFromReturnAnnotation(t *testing.T) {
	content := `
class Widget:
    def __init__(self, size: int):
        self.size = size
`
	facts := extract(t, "/repo/widget.py", content)

	assert.Len(t, facts.Classes, 1)
	assert.Equal(t, "Widget", facts.Classes[0].Name)
	assert.Len(t, facts.Functions, 1)
	assert.Equal(t, "Widget", facts.Functions[0].Class)
	assert.True(t, facts.Functions[0].Annotated)
}

func TestImportPlacement(t *testing.T) {
	content := `"""Module docstring."""
import os
from typing import Dict


def work() -> None:
    pass

import sys
`
	facts := extract(t, "/repo/app.py", content)

	assert.Len(t, facts.Imports, 3)
	assert.True(t, facts.Imports[0].AtTop)
	assert.True(t, facts.Imports[1].AtTop)
	assert.False(t, facts.Imports[2].AtTop)
	assert.Equal(t, "sys", facts.Imports[2].Module)
}

func TestMultilineModuleDocstringDoesNotEndPreamble(t *testing.T) {
	content := `"""
Module docstring over
several lines.
"""
import os
`
	facts := extract(t, "/repo/app.py", content)

	assert.Len(t, facts.Imports, 1)
	assert.True(t, facts.Imports[0].AtTop)
}

func TestTestFileDetection(t *testing.T) {
	assert.True(t, isTestFile("/repo/tests/widget_suite.py"))
	assert.True(t, isTestFile("/repo/app/test_widget.py"))
	assert.True(t, isTestFile("/repo/app/widget_test.py"))
	assert.False(t, isTestFile("/repo/app/widget.py"))
}

func TestTestFunctionsAreFlagged(t *testing.T) {
	content := `
def test__render__draws_box():
    widget = Widget(3)
    assert widget.size == 3
`
	facts := extract(t, "/repo/tests/test_widget.py", content)

	assert.True(t, facts.IsTest)
	assert.Len(t, facts.Functions, 1)
	assert.True(t, facts.Functions[0].IsTest)
	assert.Equal(t, []string{"Widget"}, facts.Functions[0].Collaborators)
}

func TestExceptionConstructorsAreNotCollaborators(t *testing.T) {
	content := `
def test__render__rejects_negative():
    with pytest.raises(ValueError):
        render(-1)
    raise RuntimeError("boom")
`
	facts := extract(t, "/repo/tests/test_widget.py", content)

	assert.Len(t, facts.Functions, 1)
	assert.Empty(t, facts.Functions[0].Collaborators)
}

func TestFixtureAndMockDetection(t *testing.T) {
	withFixture := extract(t, "/repo/tests/test_widget.py", `
@pytest.fixture
def widget() -> Widget:
    return Widget(3)
`)
	assert.True(t, withFixture.UsesFixtures)

	withMock := extract(t, "/repo/tests/test_widget.py", `
from unittest.mock import MagicMock

def test__render__uses_client():
    client = MagicMock()
`)
	assert.True(t, withMock.UsesMocking)

	plain := extract(t, "/repo/tests/test_widget.py", `
def test__render__draws_box():
    assert True
`)
	assert.False(t, plain.UsesMocking)
	assert.False(t, plain.UsesFixtures)
}

func TestLanguageDetection(t *testing.T) {
	facts := extract(t, "/repo/app.py", "import os\n")

	assert.Equal(t, "Python", facts.Language)
}
