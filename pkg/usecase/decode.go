package usecase

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Document is the serialized form of a UseCase. It uses "mapstructure" tags so the same
// shape decodes from YAML, JSON and document frontmatter.
type Document struct {
	Name                   string           `json:"name" yaml:"name" mapstructure:"name"`
	Description            string           `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description"`
	Preconditions          []string         `json:"preconditions,omitempty" yaml:"preconditions,omitempty" mapstructure:"preconditions"`
	Postconditions         []string         `json:"postconditions,omitempty" yaml:"postconditions,omitempty" mapstructure:"postconditions"`
	MainFlow               []map[string]any `json:"main_flow" yaml:"main_flow" mapstructure:"main_flow"`
	GlobalAlternativeFlows []GlobalFlowDoc  `json:"global_alternative_flows,omitempty" yaml:"global_alternative_flows,omitempty" mapstructure:"global_alternative_flows"`
}

// GlobalFlowDoc is the serialized form of a GlobalAlternativeFlow.
type GlobalFlowDoc struct {
	Trigger   string           `json:"trigger" yaml:"trigger" mapstructure:"trigger"`
	Sentences []map[string]any `json:"sentences" yaml:"sentences" mapstructure:"sentences"`
}

type sentenceDoc struct {
	Kind            Kind               `mapstructure:"kind"`
	ID              string             `mapstructure:"id"`
	Content         string             `mapstructure:"content"`
	Actor           string             `mapstructure:"actor"`
	Action          string             `mapstructure:"action"`
	Object          string             `mapstructure:"object"`
	Transaction     TransactionKind    `mapstructure:"transaction"`
	Condition       string             `mapstructure:"condition"`
	AlternativeFlow []map[string]any   `mapstructure:"alternative_flow"`
	Then            []map[string]any   `mapstructure:"then"`
	Else            []map[string]any   `mapstructure:"else"`
	ElseIf          []branchDoc        `mapstructure:"else_if"`
	Branches        [][]map[string]any `mapstructure:"branches"`
	Body            []map[string]any   `mapstructure:"body"`
	UseCase         string             `mapstructure:"use_case"`
	Target          string             `mapstructure:"target"`
}

type branchDoc struct {
	Condition string           `mapstructure:"condition"`
	Sentences []map[string]any `mapstructure:"sentences"`
}

// Parse decodes a YAML or JSON use case.
func Parse(data []byte) (*UseCase, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse use case: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("failed to parse use case: empty document")
	}
	return DecodeMap(raw)
}

// DecodeMap decodes a generic map (as produced by YAML/JSON unmarshaling) into a UseCase.
func DecodeMap(raw map[string]any) (*UseCase, error) {
	var doc Document
	if err := decodeStrict(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode use case: %w", err)
	}
	return doc.UseCase()
}

// UseCase converts the document into the sentence tree.
func (d Document) UseCase() (*UseCase, error) {
	uc := &UseCase{
		Name:           d.Name,
		Description:    d.Description,
		Preconditions:  d.Preconditions,
		Postconditions: d.Postconditions,
	}

	main, err := decodeList(d.MainFlow, "main_flow")
	if err != nil {
		return nil, err
	}
	uc.MainFlow = main

	for i, gf := range d.GlobalAlternativeFlows {
		list, err := decodeList(gf.Sentences, fmt.Sprintf("global_alternative_flows[%d]", i))
		if err != nil {
			return nil, err
		}
		uc.GlobalAlternativeFlows = append(uc.GlobalAlternativeFlows, GlobalAlternativeFlow{
			TriggerEvent: gf.Trigger,
			Sentences:    list,
		})
	}
	return uc, nil
}

// DecodeSentence decodes one tagged sentence map.
func DecodeSentence(raw map[string]any) (Sentence, error) {
	return decodeSentence(raw, "sentence")
}

func decodeList(raws []map[string]any, path string) ([]Sentence, error) {
	if len(raws) == 0 {
		return nil, nil
	}
	out := make([]Sentence, 0, len(raws))
	for i, raw := range raws {
		s, err := decodeSentence(raw, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func decodeSentence(raw map[string]any, path string) (Sentence, error) {
	var doc sentenceDoc
	if err := decodeStrict(raw, &doc); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	base := Base{ID: doc.ID, Content: doc.Content}
	path = fmt.Sprintf("%s(%s)", path, doc.ID)

	switch doc.Kind {
	case KindSimple:
		return Simple{
			Base:        base,
			Actor:       doc.Actor,
			Action:      doc.Action,
			Object:      doc.Object,
			Transaction: doc.Transaction,
		}, nil
	case KindConditionCheck:
		alt, err := decodeList(doc.AlternativeFlow, path+".alternative_flow")
		if err != nil {
			return nil, err
		}
		return ConditionCheck{Base: base, Condition: doc.Condition, AlternativeFlow: alt}, nil
	case KindConditional:
		s := Conditional{Base: base, Condition: doc.Condition}
		var err error
		if s.Then, err = decodeList(doc.Then, path+".then"); err != nil {
			return nil, err
		}
		if s.Else, err = decodeList(doc.Else, path+".else"); err != nil {
			return nil, err
		}
		for i, b := range doc.ElseIf {
			list, err := decodeList(b.Sentences, fmt.Sprintf("%s.else_if[%d]", path, i))
			if err != nil {
				return nil, err
			}
			s.ElseIfBranches = append(s.ElseIfBranches, ElseIfBranch{Condition: b.Condition, Sentences: list})
		}
		return s, nil
	case KindParallel:
		s := Parallel{Base: base, Branches: make([][]Sentence, 0, len(doc.Branches))}
		for i, b := range doc.Branches {
			list, err := decodeList(b, fmt.Sprintf("%s.branches[%d]", path, i))
			if err != nil {
				return nil, err
			}
			s.Branches = append(s.Branches, list)
		}
		return s, nil
	case KindIterative:
		body, err := decodeList(doc.Body, path+".body")
		if err != nil {
			return nil, err
		}
		return Iterative{Base: base, Condition: doc.Condition, Body: body}, nil
	case KindInclude:
		return Include{Base: base, UseCase: doc.UseCase}, nil
	case KindExtend:
		return Extend{Base: base, UseCase: doc.UseCase}, nil
	case KindAbort:
		return Abort{Base: base}, nil
	case KindResumeStep:
		return ResumeStep{Base: base, Target: doc.Target}, nil
	default:
		return nil, fmt.Errorf("%s: %w: %q", path, ErrUnknownKind, doc.Kind)
	}
}

func decodeStrict(input any, output any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  mapstructure.TextUnmarshallerHookFunc(),
		ErrorUnused: true,
		Result:      output,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}
