package recipe

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Recipe is the normalized recipe returned to clients.
type Recipe struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Servings    *float64     `json:"servings,omitempty"`
	CookTime    string       `json:"cookTime,omitempty"`
	Difficulty  string       `json:"difficulty,omitempty"`
	Calories    *float64     `json:"calories,omitempty"`
	Ingredients []Ingredient `json:"ingredients"`
	Steps       []Step       `json:"steps"`
	Tools       []string     `json:"tools"`
	Allergens   []string     `json:"allergens"`
	Tips        []string     `json:"tips"`
	Image       string       `json:"image,omitempty"`
}

type Ingredient struct {
	Item   string         `json:"item"`
	Amount StringOrNumber `json:"amount"`
	Notes  string         `json:"notes,omitempty"`
}

type Step struct {
	Step        int      `json:"step"`
	Instruction string   `json:"instruction"`
	Equipment   string   `json:"equipment,omitempty"`
	Ingredients []string `json:"ingredients"`
}

// FoodValidation is the food classifier verdict.
type FoodValidation struct {
	IsFood     bool    `json:"isFood"`
	Confidence float64 `json:"confidence"`
}

// StringOrNumber can unmarshal from JSON string or number
type StringOrNumber string

func (s *StringOrNumber) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = ""
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = StringOrNumber(str)
		return nil
	}
	var num float64
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*s = StringOrNumber(strconv.FormatFloat(num, 'f', -1, 64))
	return nil
}

// looseNumber accepts a number, a numeric string or anything else. Values
// that are not a finite number decode as unset rather than failing.
type looseNumber struct {
	value float64
	set   bool
}

func (n *looseNumber) UnmarshalJSON(data []byte) error {
	*n = looseNumber{}
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		n.value, n.set = num, true
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(str), 64); err == nil {
			n.value, n.set = f, true
		}
	}
	return nil
}

// positive returns the value when it is a finite number above zero.
func (n looseNumber) positive() *float64 {
	if !n.set || math.IsNaN(n.value) || math.IsInf(n.value, 0) || n.value <= 0 {
		return nil
	}
	v := n.value
	return &v
}

// rawRecipe is the model's output before normalization. Steps may carry
// time/heat fields which are discarded.
type rawRecipe struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Servings    looseNumber  `json:"servings"`
	CookTime    flexString   `json:"cookTime"`
	Difficulty  string       `json:"difficulty"`
	Calories    looseNumber  `json:"calories"`
	Ingredients []Ingredient `json:"ingredients"`
	Steps       []rawStep    `json:"steps"`
	Tools       []string     `json:"tools"`
	Allergens   []string     `json:"allergens"`
	Tips        []string     `json:"tips"`
}

type rawStep struct {
	Instruction string          `json:"instruction"`
	Equipment   flexString      `json:"equipment"`
	Ingredients []string        `json:"ingredients"`
	Time        json.RawMessage `json:"time"`
	Heat        json.RawMessage `json:"heat"`
}

// flexString accepts a string, a number or a list of strings.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*s = flexString(strings.Join(list, ", "))
		return nil
	}
	var v StringOrNumber
	if err := v.UnmarshalJSON(data); err != nil {
		*s = ""
		return nil
	}
	*s = flexString(v)
	return nil
}
