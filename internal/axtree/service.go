package axtree

import (
	"encoding/json"
	"errors"
)

// Service exposes the resolver as string-returning operations for the tool
// layer. Document methods keep success and failure apart; the Get* methods
// flatten them into the single string callers expect.
type Service struct {
	resolver *Resolver
}

// NewService returns a Service over p.
func NewService(p Provider, opts ...Option) *Service {
	return &Service{resolver: NewResolver(p, opts...)}
}

// Resolver returns the underlying resolver.
func (s *Service) Resolver() *Resolver { return s.resolver }

// FocusedWindowDocument renders the tree of the focused window.
func (s *Service) FocusedWindowDocument() (string, error) {
	n, err := s.resolver.FocusedWindowTree()
	if err != nil {
		return "", err
	}
	return Render(n), nil
}

// WindowDocument renders the tree of the first window of pid.
func (s *Service) WindowDocument(pid, windowNumber int) (string, error) {
	n, err := s.resolver.WindowTree(pid, windowNumber)
	if err != nil {
		return "", err
	}
	return Render(n), nil
}

// WindowListDocument renders the filtered on-screen window list. A failed
// enumeration renders as an empty list.
func (s *Service) WindowListDocument() (string, error) {
	windows, err := s.resolver.OnScreenWindows()
	if err != nil {
		windows = []map[string]any{}
	}
	return RenderValue(windows), nil
}

// GetFocusedWindowInfo returns {"pid", "name", "windowID"} for the focused
// window.
func (s *Service) GetFocusedWindowInfo() string {
	b, err := json.Marshal(s.resolver.FocusedWindowInfo())
	if err != nil {
		return SerializationFailure
	}
	return string(b)
}

// GetWindowStructure returns the focused window tree, or a failure message.
func (s *Service) GetWindowStructure() string {
	return Flatten(s.FocusedWindowDocument())
}

// GetWindowsStructureByPID returns the tree of the first window of pid, or a
// failure message.
func (s *Service) GetWindowsStructureByPID(pid, windowNumber int) string {
	return Flatten(s.WindowDocument(pid, windowNumber))
}

// GetWindowsListInfo returns the filtered on-screen window list.
func (s *Service) GetWindowsListInfo() string {
	return Flatten(s.WindowListDocument())
}

// Flatten collapses a document result into one string: the document on
// success, the failure message otherwise.
func Flatten(doc string, err error) string {
	if err == nil {
		return doc
	}
	var f *Failure
	if errors.As(err, &f) {
		return f.Message
	}
	return err.Error()
}
