package diag

import (
	"fmt"
)

type Code uint16

const (
	// UnknownCode covers diagnostics without a dedicated code.
	UnknownCode Code = 0

	// Promotion pass (1000-1999)
	PromoInfo                Code = 1000
	PromoAnnotationNoEffect  Code = 1001
	PromoInvalidPlacement    Code = 1002
	PromoOverridePromoted    Code = 1003
	PromoAccessorMaterialize Code = 1004

	// Accessor synthesis (2000-2999)
	AccNamingCollision  Code = 2001
	AccRegistryDisabled Code = 2002

	// Inline rewrite (3000-3999)
	InlInfo              Code = 3000
	InlAdHocAccessor     Code = 3001
	InlAmbiguousOverride Code = 3002

	// Unit metadata / IO (4000-4999)
	MetaInfo            Code = 4000
	MetaSchemaMismatch  Code = 4001
	MetaPayloadCorrupt  Code = 4002
	MetaDanglingDeclRef Code = 4003
)

var codeTitles = map[Code]string{
	UnknownCode:              "unknown diagnostic",
	PromoInfo:                "promotion note",
	PromoAnnotationNoEffect:  "annotation has no effect on a public declaration",
	PromoInvalidPlacement:    "annotation is not allowed on this declaration",
	PromoOverridePromoted:    "override promoted through annotated parent",
	PromoAccessorMaterialize: "accessor materialized for annotated declaration",
	AccNamingCollision:       "synthesized accessor name collides with another target",
	AccRegistryDisabled:      "accessor synthesis disabled after naming collision",
	InlInfo:                  "inline rewrite note",
	InlAdHocAccessor:         "inline body forced an ad-hoc accessor",
	InlAmbiguousOverride:     "inline target has a non-binary-API override",
	MetaInfo:                 "unit metadata note",
	MetaSchemaMismatch:       "unit payload schema mismatch",
	MetaPayloadCorrupt:       "unit payload is corrupt",
	MetaDanglingDeclRef:      "unit payload references an unknown declaration",
}

// ID returns the stable textual identifier of the code.
func (c Code) ID() string {
	ic := int(c)
	switch {
	case c >= 1000 && c < 2000:
		return fmt.Sprintf("PRO%04d", ic)
	case c >= 2000 && c < 3000:
		return fmt.Sprintf("ACC%04d", ic)
	case c >= 3000 && c < 4000:
		return fmt.Sprintf("INL%04d", ic)
	case c >= 4000 && c < 5000:
		return fmt.Sprintf("MET%04d", ic)
	default:
		return fmt.Sprintf("EMB%04d", ic)
	}
}

// Title returns the short human-readable description of the code.
func (c Code) Title() string {
	if title, ok := codeTitles[c]; ok {
		return title
	}
	return codeTitles[UnknownCode]
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
