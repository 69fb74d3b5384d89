package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

type catalogDoc struct {
	Diagnostic   []questionDoc    `yaml:"diagnostic"`
	Lessons      []lessonDoc      `yaml:"lessons"`
	Achievements []achievementDoc `yaml:"achievements"`
}

type questionDoc struct {
	ID           int      `yaml:"id"`
	Category     string   `yaml:"category"`
	Text         string   `yaml:"text"`
	Options      []string `yaml:"options"`
	CorrectIndex int      `yaml:"correct_index"`
}

type lessonDoc struct {
	ID          int           `yaml:"id"`
	Topic       string        `yaml:"topic"`
	Theory      string        `yaml:"theory"`
	CodeExample string        `yaml:"code_example"`
	Questions   []questionDoc `yaml:"questions"`
}

type achievementDoc struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	XPReward    int    `yaml:"xp_reward"`
}

const catalogSchema = `{
  "type": "object",
  "required": ["diagnostic", "lessons", "achievements"],
  "properties": {
    "diagnostic": {"type": "array", "minItems": 1, "items": {"$ref": "#/$defs/question"}},
    "lessons": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["id", "topic", "theory", "questions"],
        "properties": {
          "id": {"type": "integer", "minimum": 1},
          "topic": {"type": "string", "minLength": 1},
          "theory": {"type": "string", "minLength": 1},
          "code_example": {"type": "string"},
          "questions": {"type": "array", "minItems": 1, "items": {"$ref": "#/$defs/question"}}
        }
      }
    },
    "achievements": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "name"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "name": {"type": "string", "minLength": 1},
          "description": {"type": "string"},
          "xp_reward": {"type": "integer", "minimum": 0}
        }
      }
    }
  },
  "$defs": {
    "question": {
      "type": "object",
      "required": ["id", "category", "text", "options", "correct_index"],
      "properties": {
        "id": {"type": "integer", "minimum": 1},
        "category": {"enum": ["syntax", "data_types", "functions", "loops", "oop"]},
        "text": {"type": "string", "minLength": 1},
        "options": {"type": "array", "minItems": 2, "items": {"type": "string"}},
        "correct_index": {"type": "integer", "minimum": 0}
      }
    }
  }
}`

var compiledCatalogSchema = func() *jsonschema.Schema {
	def, err := jsonschema.UnmarshalJSON(strings.NewReader(catalogSchema))
	if err != nil {
		panic(fmt.Sprintf("catalog schema: %v", err))
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema://catalog.json", def); err != nil {
		panic(fmt.Sprintf("catalog schema: %v", err))
	}
	return c.MustCompile("schema://catalog.json")
}()

// Parse decodes a YAML catalogue, validates its shape against the catalogue
// schema and then checks the cross-references the schema cannot express.
func Parse(data []byte) (*Catalog, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	// Round-trip through JSON so numbers reach the validator as json.Number.
	asJSON, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("normalize yaml: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(asJSON))
	if err != nil {
		return nil, fmt.Errorf("normalize yaml: %w", err)
	}
	if err := compiledCatalogSchema.Validate(inst); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var doc catalogDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := validateDoc(doc); err != nil {
		return nil, err
	}

	diag := make([]Question, len(doc.Diagnostic))
	for i, q := range doc.Diagnostic {
		diag[i] = q.toQuestion()
	}
	lessons := make([]Lesson, len(doc.Lessons))
	for i, l := range doc.Lessons {
		qs := make([]Question, len(l.Questions))
		for j, q := range l.Questions {
			qs[j] = q.toQuestion()
		}
		lessons[i] = Lesson{
			ID:          l.ID,
			Topic:       l.Topic,
			Theory:      strings.TrimSpace(l.Theory),
			CodeExample: strings.TrimRight(l.CodeExample, "\n"),
			Questions:   qs,
		}
	}
	achievements := make([]Achievement, len(doc.Achievements))
	for i, a := range doc.Achievements {
		achievements[i] = Achievement{ID: a.ID, Name: a.Name, Description: a.Description, XPReward: a.XPReward}
	}

	return newCatalog(diag, lessons, achievements), nil
}

func (q questionDoc) toQuestion() Question {
	return Question{
		ID:           q.ID,
		Category:     Category(q.Category),
		Text:         q.Text,
		Options:      q.Options,
		CorrectIndex: q.CorrectIndex,
	}
}

// validateDoc checks id uniqueness and answer index ranges.
// Returns a combined error describing all problems found, or nil if valid.
func validateDoc(doc catalogDoc) error {
	var errs []string

	questionIDs := make(map[int]bool)
	checkQuestion := func(where string, q questionDoc) {
		if questionIDs[q.ID] {
			errs = append(errs, fmt.Sprintf("%s: duplicate question ID %d", where, q.ID))
		}
		questionIDs[q.ID] = true
		if q.CorrectIndex >= len(q.Options) {
			errs = append(errs, fmt.Sprintf("%s: question %d correct_index %d out of range (%d options)",
				where, q.ID, q.CorrectIndex, len(q.Options)))
		}
	}

	for _, q := range doc.Diagnostic {
		checkQuestion("diagnostic", q)
	}

	lessonIDs := make(map[int]bool)
	for _, l := range doc.Lessons {
		if lessonIDs[l.ID] {
			errs = append(errs, fmt.Sprintf("duplicate lesson ID: %d", l.ID))
		}
		lessonIDs[l.ID] = true
		for _, q := range l.Questions {
			checkQuestion(fmt.Sprintf("lesson %d", l.ID), q)
		}
	}

	achIDs := make(map[string]bool)
	for _, a := range doc.Achievements {
		if achIDs[a.ID] {
			errs = append(errs, fmt.Sprintf("duplicate achievement ID: %q", a.ID))
		}
		achIDs[a.ID] = true
	}

	if len(errs) > 0 {
		return fmt.Errorf("catalog validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
