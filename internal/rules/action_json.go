package rules

import (
	"encoding/json"
	"fmt"
)

func newActionData(t ActionType) (ActionData, error) {
	switch t {
	case ActionApplyTemplate:
		return &ApplyTemplateData{}, nil
	case ActionEnhance:
		return &EnhanceData{}, nil
	case ActionHighlight:
		return &HighlightData{}, nil
	case ActionReorder:
		return &ReorderData{}, nil
	case ActionContextualize:
		return &ContextualizeData{}, nil
	case ActionInjectKeywords:
		return &InjectKeywordsData{}, nil
	case ActionAddSoftSkills:
		return &AddSoftSkillsData{}, nil
	default:
		return nil, fmt.Errorf("unknown action type %q", t)
	}
}

// decodeActionData decodes raw into the payload struct selected by t.
func decodeActionData(t ActionType, raw json.RawMessage) (ActionData, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	ptr, err := newActionData(t)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, ptr); err != nil {
		return nil, fmt.Errorf("decode %s data: %w", t, err)
	}
	// Payloads are carried by value.
	switch d := ptr.(type) {
	case *ApplyTemplateData:
		return *d, nil
	case *EnhanceData:
		return *d, nil
	case *HighlightData:
		return *d, nil
	case *ReorderData:
		return *d, nil
	case *ContextualizeData:
		return *d, nil
	case *InjectKeywordsData:
		return *d, nil
	case *AddSoftSkillsData:
		return *d, nil
	}
	return nil, fmt.Errorf("unknown action type %q", t)
}

// UnmarshalJSON restores the typed payload from the instruction's type tag.
func (in *Instruction) UnmarshalJSON(b []byte) error {
	type plain Instruction
	var aux struct {
		plain
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	data, err := decodeActionData(aux.Type, aux.Data)
	if err != nil {
		return err
	}
	*in = Instruction(aux.plain)
	in.Data = data
	return nil
}

// UnmarshalJSON restores the typed payload from the action's type tag.
func (a *Action) UnmarshalJSON(b []byte) error {
	type plain Action
	var aux struct {
		plain
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	data, err := decodeActionData(aux.Type, aux.Data)
	if err != nil {
		return err
	}
	*a = Action(aux.plain)
	a.Data = data
	return nil
}
