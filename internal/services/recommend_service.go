package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// signOff closes every recommendation, verbatim.
const signOff = "Alertify IA, tu aliada para un día sin sorpresas climatológicas."

const maxRecommendationWords = 28

// RecommendService answers clothing/precaution recommendations for a
// weather prompt. With an API key it proxies the Gemini generateContent
// endpoint; without one, or when the upstream fails, it falls back to a
// local templated generator driven by prompt heuristics.
type RecommendService struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

func NewRecommendService(apiKey string, timeout time.Duration) *RecommendService {
	return &RecommendService{
		apiKey:   apiKey,
		endpoint: "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.5-flash:generateContent",
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Recommendation carries the generated text and which provider produced it.
type Recommendation struct {
	Text     string `json:"recomendacion"`
	Provider string `json:"provider"`
}

// Recommend produces a recommendation for the prompt. Never fails: upstream
// errors degrade to the local generator.
func (s *RecommendService) Recommend(ctx context.Context, prompt string) *Recommendation {
	if s.apiKey == "" {
		return &Recommendation{Text: localRecommendation(prompt), Provider: "local"}
	}

	text, err := s.callUpstream(ctx, prompt)
	if err != nil {
		log.Printf("[recommend] upstream failed, using local generator: %v", err)
		return &Recommendation{Text: localRecommendation(prompt), Provider: "local"}
	}
	return &Recommendation{Text: text, Provider: "google"}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (s *RecommendService) callUpstream(ctx context.Context, prompt string) (string, error) {
	full := "Actúa como \"Alertify\", un asistente de clima. Da una recomendación de ropa y precauciones " +
		"en máximo 30 palabras, terminando con la frase exacta: \"" + signOff + "\"\n\nDATOS DEL CLIMA:\n" + prompt

	raw, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: full}}}},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint+"?key="+s.apiKey, bytes.NewReader(raw))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini: upstream status %d", resp.StatusCode)
	}

	var parsed geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini: empty response")
	}
	return strings.TrimSpace(parsed.Candidates[0].Content.Parts[0].Text), nil
}

var (
	tempRangeRe = regexp.MustCompile(`(?i)entre\s+(-?\d{1,2})\s*°?c?\s*(?:y|and)\s*(-?\d{1,2})`)
	tempRe      = regexp.MustCompile(`(-?\d{1,2})\s*°c?`)
	uvRe        = regexp.MustCompile(`(?i)uv\s*(?:index)?\s*[:=]?\s*(\d{1,2})`)
	windRe      = regexp.MustCompile(`(?i)(?:viento\s*(?:de)?|wind)\s*(\d{1,3})`)
	rainRe      = regexp.MustCompile(`(?i)lluv|precip`)
	stormRe     = regexp.MustCompile(`(?i)tormenta|tormentoso|storm`)
	sunRe       = regexp.MustCompile(`(?i)sol|solead|clear|cielo claro`)
)

// localRecommendation mirrors the heuristics of the hosted generator:
// extract temperature range, UV, wind, and condition keywords from the
// prompt, pick a clothing suggestion, then append the sign-off.
func localRecommendation(prompt string) string {
	txt := strings.ToLower(prompt)

	var minTemp, maxTemp *int
	if m := tempRangeRe.FindStringSubmatch(txt); m != nil {
		lo, _ := strconv.Atoi(m[1])
		hi, _ := strconv.Atoi(m[2])
		minTemp, maxTemp = &lo, &hi
	} else if ms := tempRe.FindAllStringSubmatch(txt, -1); len(ms) > 0 {
		lo, _ := strconv.Atoi(ms[0][1])
		hi := lo
		for _, m := range ms[1:] {
			v, _ := strconv.Atoi(m[1])
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		minTemp, maxTemp = &lo, &hi
	}

	var uv *int
	if m := uvRe.FindStringSubmatch(txt); m != nil {
		v, _ := strconv.Atoi(m[1])
		uv = &v
	}
	var wind *int
	if m := windRe.FindStringSubmatch(txt); m != nil {
		v, _ := strconv.Atoi(m[1])
		wind = &v
	}

	isRain := rainRe.MatchString(txt)
	isStorm := stormRe.MatchString(txt)
	isSunny := sunRe.MatchString(txt)
	isCold := (maxTemp != nil && *maxTemp <= 12) || (minTemp != nil && *minTemp <= 8)
	isHot := maxTemp != nil && *maxTemp >= 28

	var parts []string
	switch {
	case isStorm || isRain:
		parts = append(parts, "Lleva impermeable y paraguas; evita zonas anegadas.")
	case isHot && isSunny:
		parts = append(parts, "Usa camiseta ligera, gafas de sol y sombrero.")
	case isHot:
		parts = append(parts, "Prefiere ropa fresca y ligera.")
	case isCold:
		parts = append(parts, "Usa una casaca abrigadora y calzado cerrado.")
	case wind != nil && *wind >= 30:
		parts = append(parts, "Lleva cortaviento: puede estar muy ventoso.")
	default:
		parts = append(parts, "Lleva una prenda ligera por si refresca y revisa el pronóstico.")
	}
	if uv != nil && *uv >= 7 {
		parts = append(parts, "Aplicar protector solar si estarás mucho tiempo al sol.")
	}

	result := clampWords(strings.Join(parts, " "), maxRecommendationWords)
	if !strings.HasSuffix(result, ".") {
		result += "."
	}
	return result + " " + signOff
}

func clampWords(s string, maxWords int) string {
	words := strings.Fields(s)
	if len(words) <= maxWords {
		return strings.TrimSpace(s)
	}
	return strings.Join(words[:maxWords], " ")
}
