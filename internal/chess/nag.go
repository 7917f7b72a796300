package chess

// Numeric annotation glyphs with a shorthand form in movetext.
const (
	NAGNull             = 0
	NAGGoodMove         = 1 // !
	NAGMistake          = 2 // ?
	NAGBrilliantMove    = 3 // !!
	NAGBlunder          = 4 // ??
	NAGSpeculativeMove  = 5 // !?
	NAGDubiousMove      = 6 // ?!
	NAGForcedMove       = 7
	NAGSingularMove     = 8
	NAGWorstMove        = 9
	NAGDrawishPosition  = 10
	NAGQuietPosition    = 11
	NAGActivePosition   = 12
	NAGUnclearPosition  = 13
	NAGWhiteSlightAdv   = 14
	NAGBlackSlightAdv   = 15
	NAGWhiteModerateAdv = 16
	NAGBlackModerateAdv = 17
	NAGWhiteDecisiveAdv = 18
	NAGBlackDecisiveAdv = 19
	NAGWhiteZugzwang    = 22
	NAGBlackZugzwang    = 23
	NAGWhiteTimeTrouble = 136
	NAGBlackTimeTrouble = 137
	NAGNovelty          = 146
)

var annotationNAGs = map[string]int{
	"!":  NAGGoodMove,
	"?":  NAGMistake,
	"!!": NAGBrilliantMove,
	"??": NAGBlunder,
	"!?": NAGSpeculativeMove,
	"?!": NAGDubiousMove,
}

// AnnotationToNAG maps move annotation shorthand like "!?" to its NAG.
func AnnotationToNAG(annotation string) (int, bool) {
	nag, ok := annotationNAGs[annotation]
	return nag, ok
}
