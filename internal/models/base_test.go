package models

import (
	"encoding/json"
	"testing"
)

func TestFlexInt_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in   string
		want FlexInt
	}{
		{`5`, 5},
		{`"12"`, 12},
		{`" 7 "`, 7},
		{`""`, 0},
		{`null`, 0},
		{`"abc"`, 0},
		{`3.9`, 3},
		{`"2,5"`, 2},
		{`true`, 0},
	}
	for _, tt := range tests {
		var v struct {
			N FlexInt `json:"n"`
		}
		if err := json.Unmarshal([]byte(`{"n":`+tt.in+`}`), &v); err != nil {
			t.Fatalf("%s: ошибка разбора: %v", tt.in, err)
		}
		if v.N != tt.want {
			t.Errorf("%s: получено %d, ожидалось %d", tt.in, v.N, tt.want)
		}
	}
}

func TestFlexFloat_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in   string
		want FlexFloat
	}{
		{`1500.5`, 1500.5},
		{`"1 500,50"`, 1500.5},
		{`"1500"`, 1500},
		{`""`, 0},
		{`"n/a"`, 0},
	}
	for _, tt := range tests {
		var f FlexFloat
		if err := json.Unmarshal([]byte(tt.in), &f); err != nil {
			t.Fatalf("%s: ошибка разбора: %v", tt.in, err)
		}
		if f != tt.want {
			t.Errorf("%s: получено %v, ожидалось %v", tt.in, f, tt.want)
		}
	}
}

func TestNewsArticle_BeforeSave(t *testing.T) {
	n := &NewsArticle{Title: "Итоги Приёмной Кампании", FullText: "  Текст  "}
	if err := n.BeforeSave(nil); err != nil {
		t.Fatal(err)
	}
	if n.SearchText != "итоги приёмной кампании \n текст" {
		t.Errorf("SearchText = %q", n.SearchText)
	}
	if n.Images == nil || n.Attachments == nil {
		t.Error("списки файлов должны быть пустыми, а не nil")
	}
}

func TestNewsArticle_Files(t *testing.T) {
	n := &NewsArticle{
		PreviewImage: "/uploads/images/a.png",
		Images:       []string{"/uploads/images/b.png"},
		Attachments:  []string{"/uploads/documents/c.pdf"},
	}
	got := n.Files()
	if len(got) != 3 || got[0] != "/uploads/images/a.png" || got[2] != "/uploads/documents/c.pdf" {
		t.Errorf("Files() = %v", got)
	}
}

func TestVisibility_Defaults(t *testing.T) {
	var s Slide
	s.ApplyDefaults()
	if !s.Active() {
		t.Error("новая запись должна быть видимой")
	}
	if err := json.Unmarshal([]byte(`{"isActive":false}`), &s); err != nil {
		t.Fatal(err)
	}
	if s.Active() {
		t.Error("явный false должен сохраниться")
	}
}
