package cmd

import "github.com/bnema/droidfleet/internal/domain"

// ExitCode maps err to the process exit status, by error kind.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	switch domain.KindOf(err) {
	case domain.KindConfiguration:
		return 2
	case domain.KindProtocol:
		return 3
	case domain.KindTransient:
		return 4
	case domain.KindConflict:
		return 5
	case domain.KindTimeout:
		return 6
	case domain.KindNotFound:
		return 7
	default:
		return 1
	}
}
