package model

import (
	"fmt"

	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/apperr"
)

// Persona 解码视角
type Persona string

const (
	PersonaYoutuber    Persona = "youtuber"
	PersonaEconomist   Persona = "economist"
	PersonaObserver    Persona = "observer"
	PersonaPlainSpoken Persona = "plain_spoken"
	PersonaExamPrep    Persona = "exam_prep"

	DefaultPersona = PersonaPlainSpoken
)

// Personas 全部视角，顺序与展示一致
var Personas = []Persona{
	PersonaYoutuber,
	PersonaEconomist,
	PersonaObserver,
	PersonaPlainSpoken,
	PersonaExamPrep,
}

// ParsePersona 解析视角标识，空字符串返回默认视角
func ParsePersona(s string) (Persona, error) {
	if s == "" {
		return DefaultPersona, nil
	}
	for _, p := range Personas {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", apperr.ErrUnknownPersona, s)
}
