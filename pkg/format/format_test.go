package format

import "testing"

func TestDetect(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		path        string
		want        Format
	}{
		{name: "json content type", contentType: "application/json; charset=utf-8", path: "/a.xml", want: JSON},
		{name: "text/json", contentType: "TEXT/JSON", path: "", want: JSON},
		{name: "xml content type wins over suffix", contentType: "application/xml", path: "/a.json", want: XML},
		{name: "text/xml", contentType: "text/xml;charset=UTF-8", path: "", want: XML},
		{name: "plain text", contentType: "text/plain", path: "/v.json", want: Text},
		{name: "unknown type falls back to json suffix", contentType: "application/octet-stream", path: "/data/v.json", want: JSON},
		{name: "xml suffix", contentType: "", path: "/data/v.xml", want: XML},
		{name: "txt suffix", contentType: "", path: "/data/versions.txt", want: Text},
		{name: "suffix is case insensitive", contentType: "", path: "/data/VERSIONS.TXT", want: Text},
		{name: "html falls back to default", contentType: "text/html", path: "/api/versions", want: JSON},
		{name: "nothing known defaults to json", contentType: "", path: "", want: JSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.contentType, tt.path); got != tt.want {
				t.Fatalf("Detect(%q, %q)=%v want=%v", tt.contentType, tt.path, got, tt.want)
			}
		})
	}
}

func TestFormatString(t *testing.T) {
	if JSON.String() != "json" || XML.String() != "xml" || Text.String() != "text" || Unknown.String() != "unknown" {
		t.Fatalf("unexpected format names")
	}
}
