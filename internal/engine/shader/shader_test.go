package shader

import "testing"

func TestAnnotate(t *testing.T) {
	src := "#version 410 core\nuniform mat4 u_mvp;\nvoid main() {\n    gl_Position = u_mvp * pos;\n}"

	tests := []struct {
		name string
		log  string
		want string
	}{
		{
			"mesa format",
			"0:4(27): error: `pos' undeclared",
			"0:4(27): error: `pos' undeclared\n  line 4: gl_Position = u_mvp * pos;",
		},
		{
			"nvidia format",
			"ERROR: 0:2: 'mat4' : syntax error",
			"ERROR: 0:2: 'mat4' : syntax error\n  line 2: uniform mat4 u_mvp;",
		},
		{"line out of range", "0:40(1): error: eof", "0:40(1): error: eof"},
		{"no location", "link error", "link error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := annotate(tt.log, src); got != tt.want {
				t.Errorf("annotate() = %q, want %q", got, tt.want)
			}
		})
	}
}
