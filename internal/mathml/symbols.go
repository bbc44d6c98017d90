package mathml

// identifiers render as <mi>.
var identifiers = map[string]string{
	"alpha": "α", "beta": "β", "gamma": "γ", "delta": "δ", "epsilon": "ϵ",
	"varepsilon": "ε", "zeta": "ζ", "eta": "η", "theta": "θ", "vartheta": "ϑ",
	"iota": "ι", "kappa": "κ", "lambda": "λ", "mu": "μ", "nu": "ν", "xi": "ξ",
	"omicron": "ο", "pi": "π", "varpi": "ϖ", "rho": "ρ", "varrho": "ϱ",
	"sigma": "σ", "varsigma": "ς", "tau": "τ", "upsilon": "υ", "phi": "ϕ",
	"varphi": "φ", "chi": "χ", "psi": "ψ", "omega": "ω",
	"Gamma": "Γ", "Delta": "Δ", "Theta": "Θ", "Lambda": "Λ", "Xi": "Ξ",
	"Pi": "Π", "Sigma": "Σ", "Upsilon": "Υ", "Phi": "Φ", "Psi": "Ψ",
	"Omega": "Ω",
	"infty": "∞", "partial": "∂", "nabla": "∇", "hbar": "ℏ", "ell": "ℓ",
	"aleph": "ℵ", "emptyset": "∅", "varnothing": "∅", "Re": "ℜ", "Im": "ℑ",
	"wp": "℘", "imath": "ı", "jmath": "ȷ", "angle": "∠", "triangle": "△",
	"prime": "′", "degree": "°", "top": "⊤", "bot": "⊥",
	"%": "%", "$": "$", "#": "#", "_": "_",
}

// operators render as <mo>.
var operators = map[string]string{
	"times": "×", "cdot": "⋅", "cdotp": "⋅", "div": "÷", "pm": "±", "mp": "∓",
	"ast": "∗", "star": "⋆", "circ": "∘", "bullet": "∙", "oplus": "⊕",
	"ominus": "⊖", "otimes": "⊗", "odot": "⊙", "wedge": "∧", "land": "∧",
	"vee": "∨", "lor": "∨", "cap": "∩", "cup": "∪", "setminus": "∖",
	"leq": "≤", "le": "≤", "geq": "≥", "ge": "≥", "neq": "≠", "ne": "≠",
	"leqslant": "⩽", "geqslant": "⩾", "ll": "≪", "gg": "≫",
	"approx": "≈", "equiv": "≡", "sim": "∼", "simeq": "≃", "cong": "≅",
	"propto": "∝", "asymp": "≍", "doteq": "≐", "prec": "≺", "succ": "≻",
	"in": "∈", "notin": "∉", "ni": "∋", "subset": "⊂", "subseteq": "⊆",
	"supset": "⊃", "supseteq": "⊇", "perp": "⊥", "parallel": "∥", "mid": "∣",
	"to": "→", "rightarrow": "→", "leftarrow": "←", "gets": "←",
	"leftrightarrow": "↔", "Rightarrow": "⇒", "Leftarrow": "⇐",
	"Leftrightarrow": "⇔", "implies": "⟹", "iff": "⟺", "mapsto": "↦",
	"longrightarrow": "⟶", "longleftarrow": "⟵", "Longrightarrow": "⟹",
	"uparrow": "↑", "downarrow": "↓", "rightleftharpoons": "⇌",
	"forall": "∀", "exists": "∃", "nexists": "∄", "neg": "¬", "lnot": "¬",
	"therefore": "∴", "because": "∵",
	"ldots": "…", "dots": "…", "cdots": "⋯", "vdots": "⋮", "ddots": "⋱",
	"langle": "⟨", "rangle": "⟩", "lfloor": "⌊", "rfloor": "⌋",
	"lceil": "⌈", "rceil": "⌉", "vert": "|", "Vert": "‖", "lvert": "|",
	"rvert": "|", "lVert": "‖", "rVert": "‖", "lbrace": "{", "rbrace": "}",
	"{": "{", "}": "}", "|": "‖", "colon": ":", "&": "&",
	"mod": "mod", "bmod": "mod",
}

// largeOperators take their scripts as limits.
var largeOperators = map[string]string{
	"sum": "∑", "prod": "∏", "coprod": "∐", "bigcup": "⋃", "bigcap": "⋂",
	"bigoplus": "⨁", "bigotimes": "⨂", "bigodot": "⨀", "bigvee": "⋁",
	"bigwedge": "⋀", "bigsqcup": "⨆",
}

// integrals keep their scripts beside the sign.
var integrals = map[string]string{
	"int": "∫", "iint": "∬", "iiint": "∭", "oint": "∮",
}

// functions render as upright multi-letter identifiers.
var functions = map[string]bool{
	"sin": true, "cos": true, "tan": true, "cot": true, "sec": true, "csc": true,
	"arcsin": true, "arccos": true, "arctan": true, "sinh": true, "cosh": true,
	"tanh": true, "coth": true, "log": true, "ln": true, "lg": true, "exp": true,
	"ker": true, "dim": true, "deg": true, "arg": true, "hom": true,
}

// limitFunctions are upright operators whose scripts go underneath.
var limitFunctions = map[string]bool{
	"lim": true, "limsup": true, "liminf": true, "max": true, "min": true,
	"sup": true, "inf": true, "det": true, "gcd": true, "Pr": true,
	"argmax": true, "argmin": true,
}

// spaces map spacing commands to mspace widths.
var spaces = map[string]string{
	",": "0.167em", "thinspace": "0.167em", ":": "0.222em", ">": "0.222em",
	";": "0.278em", " ": "0.25em", "quad": "1em", "qquad": "2em",
	"enspace": "0.5em", "!": "-0.167em", "negthinspace": "-0.167em",
}

// fontVariants map font commands to the mathvariant they apply.
var fontVariants = map[string]string{
	"mathrm": "normal", "mathbf": "bold", "mathit": "italic",
	"boldsymbol": "bold-italic", "bm": "bold-italic", "mathsf": "sans-serif",
	"mathtt": "monospace", "mathcal": "script", "mathscr": "script",
	"mathbb": "double-struck", "mathfrak": "fraktur", "rm": "normal",
}

// textCommands take a prose argument rendered as <mtext>.
var textCommands = map[string]string{
	"text": "", "textrm": "", "textnormal": "", "mbox": "", "hbox": "",
	"textit": "italic", "textbf": "bold", "textsf": "sans-serif",
	"texttt": "monospace",
}

type accent struct {
	char  string
	under bool
	// stretch marks braces and bars that span the whole base.
	stretch bool
}

var accents = map[string]accent{
	"hat": {char: "^"}, "widehat": {char: "^", stretch: true},
	"tilde": {char: "˜"}, "widetilde": {char: "˜", stretch: true},
	"bar": {char: "¯"}, "overline": {char: "‾", stretch: true},
	"vec": {char: "→"}, "overrightarrow": {char: "→", stretch: true},
	"overleftarrow": {char: "←", stretch: true},
	"dot": {char: "˙"}, "ddot": {char: "¨"}, "acute": {char: "´"},
	"grave": {char: "`"}, "breve": {char: "˘"}, "check": {char: "ˇ"},
	"underline": {char: "_", under: true, stretch: true},
	"overbrace": {char: "⏞", stretch: true},
	"underbrace": {char: "⏟", under: true, stretch: true},
}

// negations fold \not into a precomposed relation.
var negations = map[string]string{
	"=": "≠", "∈": "∉", "⊂": "⊄", "⊃": "⊅", "⊆": "⊈", "⊇": "⊉", "≡": "≢",
	"<": "≮", ">": "≯", "≤": "≰", "≥": "≱", "∼": "≁", "≈": "≉", "≅": "≇",
	"∣": "∤", "∥": "∦",
}

// sizedDelimiters render their following delimiter at a fixed size.
var sizedDelimiters = map[string]bool{
	"big": true, "Big": true, "bigg": true, "Bigg": true,
	"bigl": true, "bigr": true, "Bigl": true, "Bigr": true,
	"biggl": true, "biggr": true, "Biggl": true, "Biggr": true,
	"bigm": true, "Bigm": true,
}

// ignored produce no output.
var ignored = map[string]bool{
	"displaystyle": true, "textstyle": true, "scriptstyle": true,
	"scriptscriptstyle": true, "limits": true, "nolimits": true,
	"nonumber": true, "notag": true, "allowbreak": true, "hline": true,
	"\\": true, "cr": true, "newline": true,
	"centering": true, "strut": true, "mathstrut": true,
}

// ignoredWithArgument consume and discard one argument.
var ignoredWithArgument = map[string]bool{
	"label": true, "tag": true, "color": true, "vspace": true,
	"vphantom": true, "ref": true,
}

type environment struct {
	open, close string
	// columns marks environments that take a column specification argument.
	columns bool
}

var environments = map[string]environment{
	"matrix":      {},
	"smallmatrix": {},
	"pmatrix":     {open: "(", close: ")"},
	"bmatrix":     {open: "[", close: "]"},
	"Bmatrix":     {open: "{", close: "}"},
	"vmatrix":     {open: "|", close: "|"},
	"Vmatrix":     {open: "‖", close: "‖"},
	"cases":       {open: "{"},
	"dcases":      {open: "{"},
	"aligned":     {},
	"align":       {},
	"align*":      {},
	"alignat":     {columns: true},
	"alignat*":    {columns: true},
	"alignedat":   {columns: true},
	"gathered":    {},
	"gather":      {},
	"gather*":     {},
	"split":       {},
	"multline":    {},
	"multline*":   {},
	"eqnarray":    {},
	"eqnarray*":   {},
	"array":       {columns: true},
	"subarray":    {columns: true},
}

// wrappers are environments whose body is a single expression.
var wrappers = map[string]bool{
	"equation": true, "equation*": true, "displaymath": true, "math": true,
}
