package service

import (
	"encoding/json"
	"regexp"
	"strings"
)

// ParsedExercise is an exercise extracted from a model reply.
type ParsedExercise struct {
	Exercise     string `json:"exercise"`
	Solution     string `json:"solution"`
	ExerciseType string `json:"exercise_type"`
	Difficulty   string `json:"difficulty"`
}

var (
	codeFence      = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")
	exercisePrefix = regexp.MustCompile(`(?i)^\s*(?:\*\*)?(?:ejercicio|exercise)(?:\*\*)?\s*:\s*(?:\*\*)?\s*`)
	solutionLabel  = regexp.MustCompile(`(?i)\s*(?:\*\*)?(?:soluci[oó]n|solution)(?:\*\*)?\s*:\s*(?:\*\*)?\s*`)
	typeTag        = regexp.MustCompile(`\(([^()]*)\)\s*:`)
)

// ParseExerciseReply extracts an exercise from a model reply. Replies are
// requested as JSON; labelled text ("Ejercicio: ... Solución: ...") is
// accepted for models that ignore the JSON instruction. ok is false when no
// exercise text could be found.
func ParseExerciseReply(raw string) (ParsedExercise, bool) {
	text := strings.TrimSpace(raw)
	if m := codeFence.FindStringSubmatch(text); m != nil {
		text = m[1]
	}

	var parsed ParsedExercise
	if strings.HasPrefix(text, "{") && json.Unmarshal([]byte(text), &parsed) == nil {
		parsed.Exercise = strings.TrimSpace(parsed.Exercise)
		parsed.Solution = strings.TrimSpace(parsed.Solution)
		parsed.ExerciseType = strings.TrimSpace(parsed.ExerciseType)
		parsed.Difficulty = strings.TrimSpace(parsed.Difficulty)
		if parsed.ExerciseType == "" {
			parsed.ExerciseType = ExerciseTypeOf(parsed.Exercise)
		}
		return parsed, parsed.Exercise != ""
	}

	return parseLabelled(text)
}

func parseLabelled(text string) (ParsedExercise, bool) {
	var parsed ParsedExercise

	exercise := text
	if loc := solutionLabel.FindStringIndex(text); loc != nil {
		exercise = text[:loc[0]]
		parsed.Solution = strings.TrimSpace(text[loc[1]:])
	}
	// Models sometimes repeat the label, e.g. "Ejercicio: Ejercicio: ...".
	for exercisePrefix.MatchString(exercise) {
		exercise = exercisePrefix.ReplaceAllString(exercise, "")
	}
	parsed.Exercise = strings.TrimSpace(exercise)
	parsed.ExerciseType = ExerciseTypeOf(parsed.Exercise)
	return parsed, parsed.Exercise != ""
}

// maxExerciseTypeLen matches the exercise_type column size.
const maxExerciseTypeLen = 120

// ExerciseTypeOf returns the "(type):" tag of an exercise statement, or "".
// Tags longer than the exercise_type column are cut to fit.
func ExerciseTypeOf(text string) string {
	m := typeTag.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	kind := strings.TrimSpace(m[1])
	if runes := []rune(kind); len(runes) > maxExerciseTypeLen {
		kind = strings.TrimSpace(string(runes[:maxExerciseTypeLen]))
	}
	return kind
}
