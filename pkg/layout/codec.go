package layout

import (
	"bytes"
	"encoding/json"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/graphview/pkg/errors"
)

// stateFile is the decoding target for persisted states. Every section is
// pre-filled with defaults so partial files keep the remaining parameters;
// extras fall back to the defaults only when the key is absent.
type stateFile struct {
	Kind         Kind              `json:"kind" toml:"kind"`
	Random       RandomState       `json:"random" toml:"random"`
	Hierarchical HierarchicalState `json:"hierarchical" toml:"hierarchical"`
	Circular     CircularState     `json:"circular" toml:"circular"`
	Force        ForceState        `json:"force" toml:"force"`
	Extras       *[]ExtraState     `json:"extras" toml:"extras"`
}

func newStateFile(kind Kind) *stateFile {
	return &stateFile{
		Kind:         kind,
		Random:       DefaultRandom(),
		Hierarchical: DefaultHierarchical(),
		Circular:     DefaultCircular(),
		Force:        DefaultForce(),
	}
}

func (f *stateFile) state() (State, error) {
	s := State{Kind: f.Kind}
	switch f.Kind {
	case KindRandom:
		s.Random = &f.Random
	case KindHierarchical:
		s.Hierarchical = &f.Hierarchical
	case KindCircular:
		s.Circular = &f.Circular
	case KindForceDirected:
		s.Force = &f.Force
	case KindForceDirectedExtras:
		s.Force = &f.Force
		s.Extras = DefaultState(f.Kind).Extras
		if f.Extras != nil {
			s.Extras = *f.Extras
		}
	}
	if err := s.Validate(); err != nil {
		return State{}, err
	}
	return s, nil
}

// EncodeTOML serializes s as a TOML document.
func EncodeTOML(s State) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(s.Clone()); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode layout state")
	}
	return buf.Bytes(), nil
}

// DecodeTOML parses a TOML layout state. Missing parameters take their
// defaults; invalid ones fail with CONFIGURATION_ERROR.
func DecodeTOML(data []byte) (State, error) {
	var head struct {
		Kind Kind `toml:"kind"`
	}
	if _, err := toml.Decode(string(data), &head); err != nil {
		return State{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode layout state")
	}
	f := newStateFile(head.Kind)
	if _, err := toml.Decode(string(data), f); err != nil {
		return State{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode layout state")
	}
	return f.state()
}

// EncodeJSON serializes s as indented JSON.
func EncodeJSON(s State) ([]byte, error) {
	data, err := json.MarshalIndent(s.Clone(), "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode layout state")
	}
	return data, nil
}

// DecodeJSON parses a JSON layout state with the same defaulting as
// DecodeTOML.
func DecodeJSON(data []byte) (State, error) {
	var head struct {
		Kind Kind `json:"kind"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return State{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode layout state")
	}
	f := newStateFile(head.Kind)
	if err := json.Unmarshal(data, f); err != nil {
		return State{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode layout state")
	}
	return f.state()
}

// UnmarshalJSON lets a State embed in larger JSON documents
// with the same defaulting as DecodeJSON.
func (s *State) UnmarshalJSON(data []byte) error {
	decoded, err := DecodeJSON(data)
	if err != nil {
		return err
	}
	*s = decoded
	return nil
}
