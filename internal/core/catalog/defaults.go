package catalog

import "sync"

// defaultCatalogYAML ships a small starter catalog
const defaultCatalogYAML = `
themes:
  - {name: purple, color: "#8e44ad"}
  - {name: blue, color: "#2980b9"}
  - {name: orange, color: "#e67e22"}
  - {name: green, color: "#27ae60"}
  - {name: red, color: "#c0392b"}

medications:
  - id: percocet
    displayName: Percocet
    patterns: ['(?i)\bpercocet\b']
    dose:
      amount: '(?i)percocet\s+(\d+(?:\.\d+)?)\s*[-/]\s*\d+'
      count: '(?i)\((\d+(?:\.\d+)?)\s*(?:tab|tabs|tablet|tablets|pill|pills)\)'
      unit: mg oxy
    activeDuration: {typical: 4, min: 3, max: 6, halfLife: 3.5}
    ingredients:
      - {name: oxycodone, amountPerUnit: 5, unit: mg}
      - {name: acetaminophen, amountPerUnit: 325, unit: mg}
    standardDoses:
      - {amount: 5, unit: mg oxy, label: 1 tablet}
      - {amount: 10, unit: mg oxy, label: 2 tablets}
    theme: purple

  - id: oxycodone
    displayName: Oxycodone
    patterns: ['(?i)\boxy(?:codone)?\b']
    dose:
      amount: '(?i)(\d{1,3}(?:,\d{3})+(?:\.\d+)?|\d+(?:\.\d+)?)\s*mg'
      unit: mg oxy
    activeDuration: {typical: 4, min: 3, max: 6, halfLife: 3.2}
    ingredients:
      - {name: oxycodone, amountPerUnit: 5, unit: mg}
    standardDoses:
      - {amount: 5, unit: mg oxy, label: 5mg}
    theme: red

  - id: tylenol
    displayName: Tylenol
    patterns: ['(?i)\b(?:tylenol|acetaminophen|paracetamol)\b']
    dose:
      amount: '(?i)(\d{1,3}(?:,\d{3})+(?:\.\d+)?|\d+(?:\.\d+)?)\s*mg'
      unit: mg
    activeDuration: {typical: 6, min: 4, max: 6, halfLife: 2.5}
    ingredients:
      - {name: acetaminophen, amountPerUnit: 325, unit: mg}
    standardDoses:
      - {amount: 325, unit: mg, label: Regular Strength}
      - {amount: 500, unit: mg, label: Extra Strength}
    theme: blue

  - id: ibuprofen
    displayName: Ibuprofen
    patterns: ['(?i)\b(?:ibuprofen|advil|motrin)\b']
    dose:
      amount: '(?i)(\d{1,3}(?:,\d{3})+(?:\.\d+)?|\d+(?:\.\d+)?)\s*mg'
      unit: mg
    activeDuration: {typical: 6, min: 4, max: 8, halfLife: 2}
    ingredients:
      - {name: ibuprofen, amountPerUnit: 200, unit: mg}
    standardDoses:
      - {amount: 200, unit: mg, label: 1 tablet}
    theme: orange

  - id: gabapentin
    displayName: Gabapentin
    patterns: ['(?i)\bgabapentin\b', '(?i)\bneurontin\b']
    dose:
      amount: '(?i)(\d{1,3}(?:,\d{3})+(?:\.\d+)?|\d+(?:\.\d+)?)\s*mg'
      unit: mg
    activeDuration: {typical: 8, halfLife: 6}
    standardDoses:
      - {amount: 300, unit: mg, label: 300mg}
    theme: green

users:
  - id: default
    globalLimits:
      - {ingredientName: acetaminophen, maxAmount: 4000, unit: mg, windowHours: 24}
      - {ingredientName: ibuprofen, maxAmount: 3200, unit: mg, windowHours: 24}
      - {ingredientName: oxycodone, maxAmount: 60, unit: mg, windowHours: 24}
    visualizedMedications: [percocet, oxycodone, tylenol, ibuprofen, gabapentin]
`

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the built-in catalog, parsed once per process
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Parse([]byte(defaultCatalogYAML), "yaml")
	})
	return defaultCatalog, defaultErr
}

// MustDefault is Default for callers that treat a broken built-in catalog as a programming error
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic("built-in catalog: " + err.Error())
	}
	return c
}
