package memory_map

import (
	"strings"
	"testing"
)

const sampleMaps = `555555554000-555555556000 r--p 00000000 08:01 1234                       /usr/bin/svchost
555555556000-55555555a000 r-xp 00002000 08:01 1234                       /usr/bin/svchost
7ffff7dd0000-7ffff7df0000 r-xp 00000000 08:01 99                         /usr/lib/libc.so.6
7ffff7ff0000-7ffff7ff1000 rw-p 00000000 00:00 0
7ffff7ff2000-7ffff7ff4000 r--p 00000000 08:01 77                         /opt/My App/lib one.so
garbage line
7ffff7ff5000-7ffff7ff6000 r--p 00000000 08:01 78                         /opt/a  b.so
7ffff7ff7000-7ffff7ff8000 r-xp 00000000 08:01 79                         /tmp/plugin.so (deleted)
7ffffffde000-7ffffffff000 rw-p 00000000 00:00 0                          [stack]
`

func TestParseMemoryMap(t *testing.T) {
	items, err := ParseMemoryMap(strings.NewReader(sampleMaps))
	if err != nil {
		t.Fatalf("ParseMemoryMap failed: %v", err)
	}
	if len(items) != 8 {
		t.Fatalf("Expected 8 regions, got %d: %v", len(items), items)
	}

	second := items[1]
	if second.Address != 0x555555556000 || second.Size != 0x4000 || second.Perms != "r-xp" || second.Offset != 0x2000 {
		t.Errorf("Unexpected second region: %v", second)
	}
	if items[3].Path != "" || items[3].IsFileBacked() {
		t.Errorf("Expected an anonymous region, got %v", items[3])
	}
	if items[4].Path != "/opt/My App/lib one.so" {
		t.Errorf("Expected path with spaces, got %q", items[4].Path)
	}
	if items[5].Path != "/opt/a  b.so" {
		t.Errorf("Expected runs of spaces to be kept, got %q", items[5].Path)
	}
	if items[6].Path != "/tmp/plugin.so" || !items[6].Deleted {
		t.Errorf("Expected deleted file with trimmed path, got %+v", items[6])
	}
	if items[4].Deleted {
		t.Errorf("Region %q should not be marked deleted", items[4].Path)
	}
	if items[7].Path != "[stack]" || items[7].IsFileBacked() {
		t.Errorf("Expected [stack] pseudo path, got %+v", items[7])
	}
}

func TestModules(t *testing.T) {
	items, err := ParseMemoryMap(strings.NewReader(sampleMaps))
	if err != nil {
		t.Fatalf("ParseMemoryMap failed: %v", err)
	}

	got := Modules(items)
	want := []Module{
		{Base: 0x555555554000, Size: 0x6000, Path: "/usr/bin/svchost"},
		{Base: 0x7ffff7dd0000, Size: 0x20000, Path: "/usr/lib/libc.so.6"},
		{Base: 0x7ffff7ff2000, Size: 0x2000, Path: "/opt/My App/lib one.so"},
		{Base: 0x7ffff7ff5000, Size: 0x1000, Path: "/opt/a  b.so"},
		{Base: 0x7ffff7ff7000, Size: 0x1000, Path: "/tmp/plugin.so"},
	}
	if len(got) != len(want) {
		t.Fatalf("Expected %d modules, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Module %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestModules_OutOfOrderRegions(t *testing.T) {
	items := []MemoryMapItem{
		{Address: 0x3000, Size: 0x1000, Path: "/lib/a.so"},
		{Address: 0x1000, Size: 0x1000, Path: "/lib/a.so"},
	}
	got := Modules(items)
	if len(got) != 1 || got[0].Base != 0x1000 || got[0].Size != 0x3000 {
		t.Fatalf("Expected one module spanning 0x1000-0x4000, got %+v", got)
	}
}

func TestSplitMapsLine(t *testing.T) {
	tests := []struct {
		line   string
		fields int
		path   string
	}{
		{"7f00-7f01 r--p 00000000 08:01 12   /lib/x.so", 5, "/lib/x.so"},
		{"7f00-7f01 rw-p 00000000 00:00 0", 5, ""},
		{"7f00-7f01 rw-p 00000000 00:00 0          ", 5, ""},
		{"7f00-7f01 r--p 00000000 08:01 12 /a\t b  c", 5, "/a\t b  c"},
		{"7f00-7f01 r--p", 2, ""},
	}

	for _, tt := range tests {
		fields, path := splitMapsLine(tt.line, 5)
		if len(fields) != tt.fields {
			t.Errorf("%q: expected %d fields, got %d (%q)", tt.line, tt.fields, len(fields), fields)
		}
		if path != tt.path {
			t.Errorf("%q: expected path %q, got %q", tt.line, tt.path, path)
		}
	}
}
