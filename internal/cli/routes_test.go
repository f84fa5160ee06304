package cli

import "testing"

func TestParseRoute(t *testing.T) {
	tests := []struct {
		path string
		want Route
	}{
		{path: "/", want: Route{Kind: RouteList}},
		{path: "", want: Route{Kind: RouteList}},
		{path: "/quizsets/create", want: Route{Kind: RouteCreateSet}},
		{path: "/questions/create/", want: Route{Kind: RouteCreateQuestion}},
		{path: "/quiz/3", want: Route{Kind: RoutePlay, QuizSetID: 3}},
		{path: "/quiz/3/result", want: Route{Kind: RouteResult, QuizSetID: 3}},
		{path: "quiz/12/memorization/", want: Route{Kind: RouteMemorization, QuizSetID: 12}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := ParseRoute(tt.path)
			if err != nil {
				t.Fatalf("ParseRoute(%q) returned error: %v", tt.path, err)
			}
			if got != tt.want {
				t.Fatalf("ParseRoute(%q) = (%+v), want (%+v)", tt.path, got, tt.want)
			}
		})
	}
}

func TestParseRouteRejectsUnknownPaths(t *testing.T) {
	for _, path := range []string{"/quiz", "/quiz/abc", "/quiz/0", "/quiz/1/edit", "/quiz/1/result/x", "/settings"} {
		if _, err := ParseRoute(path); err == nil {
			t.Fatalf("ParseRoute(%q) expected error", path)
		}
	}
}

func TestRouteStringRoundTrips(t *testing.T) {
	routes := []Route{
		{Kind: RouteList},
		{Kind: RouteCreateSet},
		{Kind: RouteCreateQuestion},
		{Kind: RoutePlay, QuizSetID: 4},
		{Kind: RouteResult, QuizSetID: 4},
		{Kind: RouteMemorization, QuizSetID: 4},
	}
	for _, route := range routes {
		got, err := ParseRoute(route.String())
		if err != nil || got != route {
			t.Fatalf("ParseRoute(%q) = (%+v, %v), want %+v", route.String(), got, err, route)
		}
	}
}
