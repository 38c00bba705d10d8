package sentiment

// valenceLexicon maps lowercase tokens to polarity valences on the
// [-4, 4] scale. A compact list tuned for public-agency feedback:
// service quality, licensing and enforcement vocabulary plus general
// sentiment carriers.
var valenceLexicon = map[string]float64{
	// general positive
	"good":       1.9,
	"great":      3.1,
	"excellent":  3.2,
	"amazing":    2.8,
	"awesome":    3.1,
	"fantastic":  2.6,
	"wonderful":  2.7,
	"best":       3.2,
	"better":     1.9,
	"love":       3.2,
	"loved":      2.9,
	"like":       1.5,
	"liked":      1.7,
	"happy":      2.7,
	"glad":       2.0,
	"pleased":    1.9,
	"pleasant":   2.3,
	"nice":       1.8,
	"fine":       0.8,
	"perfect":    2.7,
	"impressive": 2.3,
	"positive":   2.6,
	"win":        2.8,
	"won":        2.7,
	"success":    2.7,
	"successful": 2.8,
	"improve":    1.9,
	"improved":   2.1,
	"improving":  1.9,
	"thank":      1.9,
	"thanks":     1.9,
	"grateful":   3.1,
	"appreciate": 2.0,
	"recommend":  1.5,
	"worth":      0.9,
	"easy":       1.9,
	"easier":     1.7,
	"smooth":     1.3,
	"quick":      1.3,
	"fast":       1.1,
	"prompt":     1.2,
	"clear":      1.1,
	"honest":     2.3,
	"trust":      2.3,
	"trusted":    2.2,

	// service / agency positive
	"helpful":       1.9,
	"helped":        1.7,
	"help":          1.7,
	"responsive":    1.8,
	"professional":  1.9,
	"courteous":     2.0,
	"friendly":      2.2,
	"efficient":     1.8,
	"fair":          1.7,
	"approved":      1.9,
	"resolved":      1.6,
	"refund":        0.9,
	"protect":       1.3,
	"protected":     1.4,

	// general negative
	"bad":        -2.5,
	"worse":      -2.1,
	"worst":      -3.1,
	"terrible":   -2.1,
	"horrible":   -2.5,
	"awful":      -2.0,
	"poor":       -1.9,
	"hate":       -2.7,
	"hated":      -2.4,
	"angry":      -2.3,
	"mad":        -2.0,
	"upset":      -1.6,
	"sad":        -2.1,
	"annoyed":    -1.8,
	"annoying":   -1.7,
	"frustrated": -2.1,
	"frustrating": -2.0,
	"disappointed":  -2.1,
	"disappointing": -2.2,
	"negative":   -2.7,
	"fail":       -2.5,
	"failed":     -2.3,
	"failure":    -2.6,
	"problem":    -1.7,
	"problems":   -1.7,
	"issue":      -0.8,
	"issues":     -0.9,
	"broken":     -1.8,
	"wrong":      -2.1,
	"waste":      -1.8,
	"wasted":     -2.2,
	"useless":    -1.8,
	"difficult":  -1.5,
	"hard":       -0.4,
	"confusing":  -1.3,
	"unclear":    -1.1,
	"slow":       -1.2,
	"lost":       -1.3,
	"stuck":      -1.3,
	"unfair":     -2.3,
	"dishonest":  -2.4,
	"lie":        -1.8,
	"lied":       -2.1,
	"lies":       -1.8,

	// service / agency negative
	"scam":         -2.6,
	"fraud":        -2.8,
	"fraudulent":   -2.6,
	"corrupt":      -2.7,
	"corruption":   -2.6,
	"bureaucracy":  -1.4,
	"bureaucratic": -1.3,
	"delay":        -1.3,
	"delayed":      -1.4,
	"delays":       -1.3,
	"backlog":      -1.2,
	"denied":       -1.9,
	"denial":       -1.7,
	"rejected":     -1.9,
	"revoked":      -1.7,
	"suspended":    -1.6,
	"fined":        -1.5,
	"penalty":      -1.5,
	"violation":    -1.8,
	"complaint":    -1.2,
	"complaints":   -1.2,
	"rude":         -2.0,
	"unresponsive": -1.8,
	"incompetent":  -2.3,
	"ignored":      -1.7,
	"unhelpful":    -1.8,
	"overcharged":  -1.9,
	"expensive":    -1.0,
	"ridiculous":   -1.8,
	"nightmare":    -2.6,
	"illegal":      -2.2,
	"unlicensed":   -1.5,
}

// negators flip the valence of a following sentiment token.
var negators = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "none": {}, "neither": {},
	"nor": {}, "cannot": {}, "can't": {}, "cant": {}, "isn't": {},
	"wasn't": {}, "aren't": {}, "weren't": {}, "don't": {}, "dont": {},
	"doesn't": {}, "didn't": {}, "won't": {}, "wouldn't": {},
	"shouldn't": {}, "couldn't": {}, "ain't": {}, "without": {},
	"hardly": {}, "rarely": {},
}

// boosters intensify (positive weight) or dampen (negative weight) a
// following sentiment token.
var boosters = map[string]float64{
	"very":       0.293,
	"really":     0.293,
	"extremely":  0.293,
	"absolutely": 0.293,
	"completely": 0.293,
	"totally":    0.293,
	"incredibly": 0.293,
	"highly":     0.293,
	"so":         0.293,
	"super":      0.293,
	"utterly":    0.293,
	"somewhat":   -0.293,
	"slightly":   -0.293,
	"kinda":      -0.293,
	"kind":       -0.293,
	"barely":     -0.293,
	"marginally": -0.293,
	"partly":     -0.293,
	"sort":       -0.293,
}
