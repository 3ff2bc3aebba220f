package param

import "strings"

const KindDynamicChoiceURL = "dynamicChoiceUrl"

// Kind describes a parameter type the host can instantiate.
type Kind struct {
	Symbol      string
	DisplayName string
}

// Kinds is the registration table of parameter types.
var Kinds = []Kind{
	{Symbol: KindDynamicChoiceURL, DisplayName: "Dynamic Choice URL Parameter"},
}

func LookupKind(symbol string) (Kind, bool) {
	s := strings.TrimSpace(symbol)
	for _, k := range Kinds {
		if k.Symbol == s {
			return k, true
		}
	}
	return Kind{}, false
}
