package cli

import (
	"fmt"
	"strconv"
	"strings"
)

type RouteKind int

const (
	RouteList RouteKind = iota
	RouteCreateSet
	RouteCreateQuestion
	RoutePlay
	RouteResult
	RouteMemorization
)

// Route is one screen of the client, addressed like the web paths it mirrors.
type Route struct {
	Kind      RouteKind
	QuizSetID int64
}

// ParseRoute accepts "/", "/quizsets/create", "/questions/create",
// "/quiz/{id}", "/quiz/{id}/result" and "/quiz/{id}/memorization".
// Trailing slashes are ignored.
func ParseRoute(path string) (Route, error) {
	trimmed := strings.Trim(strings.TrimSpace(path), "/")
	if trimmed == "" {
		return Route{Kind: RouteList}, nil
	}

	parts := strings.Split(trimmed, "/")
	switch {
	case len(parts) == 2 && parts[0] == "quizsets" && parts[1] == "create":
		return Route{Kind: RouteCreateSet}, nil
	case len(parts) == 2 && parts[0] == "questions" && parts[1] == "create":
		return Route{Kind: RouteCreateQuestion}, nil
	case parts[0] != "quiz" || len(parts) < 2 || len(parts) > 3:
		return Route{}, fmt.Errorf("unknown route %q", path)
	}

	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || id <= 0 {
		return Route{}, fmt.Errorf("invalid quiz set id in route %q", path)
	}
	if len(parts) == 2 {
		return Route{Kind: RoutePlay, QuizSetID: id}, nil
	}
	switch parts[2] {
	case "result":
		return Route{Kind: RouteResult, QuizSetID: id}, nil
	case "memorization":
		return Route{Kind: RouteMemorization, QuizSetID: id}, nil
	default:
		return Route{}, fmt.Errorf("unknown route %q", path)
	}
}

func (r Route) String() string {
	switch r.Kind {
	case RouteCreateSet:
		return "/quizsets/create"
	case RouteCreateQuestion:
		return "/questions/create"
	case RoutePlay:
		return fmt.Sprintf("/quiz/%d", r.QuizSetID)
	case RouteResult:
		return fmt.Sprintf("/quiz/%d/result", r.QuizSetID)
	case RouteMemorization:
		return fmt.Sprintf("/quiz/%d/memorization", r.QuizSetID)
	default:
		return "/"
	}
}
