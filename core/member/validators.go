package member

import (
	"github.com/go-playground/validator/v10"

	"github.com/chorale-hq/chorale/core"
)

var (
	voicePartTag  = "voicepart"
	voicePartText = "invalid voice part"
)

func init() {
	_ = core.Validate.RegisterValidation(voicePartTag, voicePartValidation)
	core.RegisterCustomTranslation(voicePartTag, voicePartText)
}

// voicePartValidation checks that the provided voice part is one of VoiceParts.
func voicePartValidation(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	for _, vp := range VoiceParts {
		if val == vp {
			return true
		}
	}
	return false
}
