package memory

import (
	"reflect"
	"testing"
)

func TestExtractTags_CaseInsensitiveDedup(t *testing.T) {
	got := ExtractTags("#Foo #foo #FOO")
	want := []string{"foo"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractTags = %v, want %v", got, want)
	}
}

func TestExtractTags_RejectsDigitAndHyphenStart(t *testing.T) {
	got := ExtractTags("#1x #-y")
	if len(got) != 0 {
		t.Errorf("ExtractTags = %v, want empty", got)
	}
}

func TestExtractTags_FirstOccurrenceOrder(t *testing.T) {
	got := ExtractTags("start #beta then #alpha and #Beta again")
	want := []string{"beta", "alpha"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractTags = %v, want %v", got, want)
	}
}

func TestExtractTags_AllowedCharacters(t *testing.T) {
	got := ExtractTags("#go-lang_2 release")
	want := []string{"go-lang_2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractTags = %v, want %v", got, want)
	}
}

func TestExtractTags_NoTags(t *testing.T) {
	got := ExtractTags("plain text without markers")
	if len(got) != 0 {
		t.Errorf("ExtractTags = %v, want empty", got)
	}
}
