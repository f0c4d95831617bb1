package analyzer

import (
	"github.com/brunoribeiro/sql-parser-sub002/sql"
)

// scope holds the tables and correlation names visible from one query
// block.
type scope struct {
	// tables are the FROM entries of the block, in FROM order.
	tables []*sql.TableBinding
	// correlations maps correlation names to tables. It starts as a copy of
	// the enclosing scope's map.
	correlations map[string]*sql.TableBinding
	// own are the correlation names introduced by this block.
	own map[string]struct{}
}

func newScope(parent *scope) *scope {
	s := &scope{
		correlations: make(map[string]*sql.TableBinding),
		own:          make(map[string]struct{}),
	}
	if parent != nil {
		for k, v := range parent.correlations {
			s.correlations[k] = v
		}
	}
	return s
}

func (s *scope) addCorrelation(name string, t *sql.TableBinding) error {
	if _, ok := s.own[name]; ok {
		return sql.ErrDuplicateCorrelationName.New(name)
	}
	s.own[name] = struct{}{}
	s.correlations[name] = t
	return nil
}

// scopes is a stack of scopes, the innermost last.
type scopes []*scope

func (s *scopes) push() *scope {
	sc := newScope(s.current())
	*s = append(*s, sc)
	return sc
}

func (s *scopes) pop() {
	*s = (*s)[:len(*s)-1]
}

func (s scopes) current() *scope {
	if len(s) == 0 {
		return nil
	}
	return s[len(s)-1]
}
