package ai

import (
	"fmt"

	"github.com/tomm-ai/tomm-assistant/backend/internal/model/chat"
	"github.com/tomm-ai/tomm-assistant/backend/internal/model/settings"
)

// personaInstructions maps each persona to its behavioral framing.
var personaInstructions = map[chat.Persona]string{
	chat.PersonaStandard:  "Asisten umum serba bisa.",
	chat.PersonaCoding:    "Senior Software Engineer. Berikan penjelasan step-by-step kode.",
	chat.PersonaTeacher:   "Guru inspiratif. Gunakan analogi.",
	chat.PersonaMotivator: "Life Coach. Berikan motivasi harian.",
	chat.PersonaCreative:  "Creative Director. Berikan ide unik.",
}

const identityPrompt = `Kamu adalah Asisten Tomm AI, asisten AI pintar dari aplikasi Tomm AI.
Identitasmu adalah Asisten Tomm AI. Jangan menyebut AI lain.`

const behaviorPrompt = `
1. Deteksi emosi user (senang, bingung, sedih, marah, netral).
2. Format jawaban: Sertakan tag [EMOTION:emoticon] di awal.
3. Gunakan Knowledge Card jika jawaban berisi fakta menarik atau ringkasan dengan tag [CARD].
4. Selalu berikan pertanyaan lanjutan (Auto Follow-up).
5. Jika menjelaskan kode, gunakan format [STEP-BY-STEP].
6. Akhiri dengan baris 'SUGGESTIONS:' berisi 3 opsi pertanyaan pendek dipisahkan koma.
`

// BuildSystemInstruction assembles the system prompt from the active
// persona and the user's preference record.
func BuildSystemInstruction(cfg settings.AppSettings, persona chat.Persona) string {
	instruction, ok := personaInstructions[persona]
	if !ok {
		instruction = personaInstructions[chat.PersonaStandard]
	}

	prompt := fmt.Sprintf("%s\n\nPERSONA: %s\nBEHAVIOR: %s\nGAYA: %s\nBAHASA: %s",
		identityPrompt, instruction, behaviorPrompt, cfg.AnswerStyle, cfg.Language)

	if cfg.SafeMode {
		prompt += "\nMODE AMAN: Hindari topik sensitif dan jawab dengan bahasa yang sopan."
	}

	return prompt + "\n\n\"Asisten Tomm AI siap membantu kapan pun.\""
}
