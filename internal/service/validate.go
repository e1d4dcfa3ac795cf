package service

import (
	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/internal/validation"
)

type sanitizer interface {
	Sanitize()
}

// prepare cleans req in place and then checks its struct rules, so that
// whitespace or markup-only values count as missing.
func prepare(req sanitizer) error {
	req.Sanitize()
	return validation.Struct(req)
}
