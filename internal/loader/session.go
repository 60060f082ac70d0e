package loader

import (
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	schemaerrors "github.com/s2inspect/memlayout/errors"
	"github.com/s2inspect/memlayout/internal/registry"
	"github.com/s2inspect/memlayout/internal/schemadoc"
)

// session holds the state of one load attempt.
type session struct {
	b      *registry.Builder
	log    zerolog.Logger
	source string
	fatal  *multierror.Error
	diags  []schemaerrors.Issue
}

func (s *session) fail(issue *schemaerrors.Issue) {
	issue = issue.WithSource(s.source)
	s.log.Error().Str("code", string(issue.Code)).Str("path", issue.Path).Msg(issue.Message)
	s.fatal = multierror.Append(s.fatal, issue)
}

func (s *session) warn(issue *schemaerrors.Issue) {
	issue = issue.WithSource(s.source)
	s.log.Warn().Str("code", string(issue.Code)).Str("path", issue.Path).Msg(issue.Message)
	s.diags = append(s.diags, *issue)
}

type attrState uint8

const (
	absent attrState = iota
	valid
	invalid
)

// attrs reads attributes of one object node, recording wrongly typed values
// as fatal issues against path.
type attrs struct {
	s    *session
	n    *schemadoc.Node
	path string
}

func (a attrs) str(key string) (string, attrState) {
	v, ok := a.n.Get(key)
	if !ok {
		return "", absent
	}
	out, err := v.Str()
	if err != nil {
		a.s.fail(schemaerrors.NewIssuef(schemaerrors.ErrAttributeInvalid, a.path, "`%s`: %v", key, err))
		return "", invalid
	}
	return out, valid
}

func (a attrs) uint(key string) (uint64, attrState) {
	v, ok := a.n.Get(key)
	if !ok {
		return 0, absent
	}
	out, err := v.Uint()
	if err != nil {
		a.s.fail(schemaerrors.NewIssuef(schemaerrors.ErrAttributeInvalid, a.path, "`%s`: %v", key, err))
		return 0, invalid
	}
	return out, valid
}

func (a attrs) boolean(key string) (bool, attrState) {
	v, ok := a.n.Get(key)
	if !ok {
		return false, absent
	}
	out, err := v.Boolean()
	if err != nil {
		a.s.fail(schemaerrors.NewIssuef(schemaerrors.ErrAttributeInvalid, a.path, "`%s`: %v", key, err))
		return false, invalid
	}
	return out, valid
}

// section returns a top-level member of a document when it has the wanted kind.
// Absent sections are treated as empty.
func (s *session) section(root *schemadoc.Node, key string, kind schemadoc.Kind) (*schemadoc.Node, bool) {
	v, ok := root.Get(key)
	if !ok || v.Kind == schemadoc.Null {
		return nil, false
	}
	if v.Kind != kind {
		s.fail(schemaerrors.NewIssuef(schemaerrors.ErrAttributeInvalid, key, "section must be %s, got %s", kind, v.Kind))
		return nil, false
	}
	return v, true
}
