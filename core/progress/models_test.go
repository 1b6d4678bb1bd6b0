package progress

import "testing"

func Test_CompletionPercent(t *testing.T) {
	done := Milestone{Done: true}
	todo := Milestone{}

	tests := []struct {
		name       string
		milestones []Milestone
		want       int
	}{
		{"no milestones", nil, 0},
		{"none done", []Milestone{todo, todo}, 0},
		{"all done", []Milestone{done, done}, 100},
		{"half", []Milestone{done, todo}, 50},
		{"third rounds down", []Milestone{done, todo, todo}, 33},
		{"two thirds rounds up", []Milestone{done, done, todo}, 67},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CompletionPercent(tt.milestones); got != tt.want {
				t.Errorf("CompletionPercent() = %d; want %d", got, tt.want)
			}
		})
	}
}
