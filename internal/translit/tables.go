package translit

// Character tables for Cyrillic/Arabic/Latin to Hebrew transliteration.
// The mappings are many-to-one and lossy on purpose: several source letters
// collapse into one Hebrew letter, and unmapped characters are dropped.
// Downstream fuzzy scoring relies on this tolerance.

var cyrillicToHebrew = map[rune]string{
	'А': "א", 'а': "א", 'Б': "ב", 'б': "ב", 'В': "ו", 'в': "ו", 'Г': "ג", 'г': "ג",
	'Д': "ד", 'д': "ד", 'Е': "א", 'е': "א", 'Ё': "יו", 'ё': "יו", 'Ж': "ז", 'ж': "ז",
	'З': "ז", 'з': "ז", 'И': "י", 'и': "י", 'Й': "י", 'й': "י", 'К': "ק", 'к': "ק",
	'Л': "ל", 'л': "ל", 'М': "מ", 'м': "מ", 'Н': "נ", 'н': "נ", 'О': "ו", 'о': "ו",
	'П': "פ", 'п': "פ", 'Р': "ר", 'р': "ר", 'С': "ס", 'с': "ס", 'Т': "ת", 'т': "ת",
	'У': "ו", 'у': "ו", 'Ф': "פ", 'ф': "פ", 'Х': "ח", 'х': "ח", 'Ц': "צ", 'ц': "צ",
	'Ч': "צ", 'ч': "צ", 'Ш': "ש", 'ш': "ש", 'Щ': "שצ", 'щ': "שצ", 'Ъ': "", 'ъ': "",
	'Ы': "י", 'ы': "י", 'Ь': "", 'ь': "", 'Э': "א", 'э': "א", 'Ю': "יו", 'ю': "יו",
	'Я': "יא", 'я': "יא", ' ': " ",
}

var arabicToHebrew = map[rune]string{
	'ا': "א", 'ب': "ב", 'ت': "ת", 'ث': "ת", 'ج': "ג", 'ح': "ח", 'خ': "ח",
	'د': "ד", 'ذ': "ד", 'ر': "ר", 'ز': "ז", 'س': "ס", 'ش': "ש", 'ص': "צ",
	'ض': "צ", 'ط': "ט", 'ظ': "ט", 'ع': "ע", 'غ': "ע", 'ف': "פ", 'ق': "ק",
	'ك': "כ", 'ل': "ל", 'م': "מ", 'ن': "נ", 'ه': "ה", 'و': "ו", 'ي': "י",
	'ء': "א", 'أ': "א", 'إ': "א", 'ؤ': "ו", 'ئ': "א", 'ى': "א", 'ة': "ה",
	'آ': "א", ' ': " ",
}

var latinToHebrew = map[rune]string{
	'a': "", 'b': "ב", 'c': "ק", 'd': "ד", 'e': "", 'f': "פ", 'g': "ג", 'h': "ה",
	'i': "י", 'j': "ג׳", 'k': "ק", 'l': "ל", 'm': "מ", 'n': "נ", 'o': "ו", 'p': "פ",
	'q': "ק", 'r': "ר", 's': "ס", 't': "ת", 'u': "ו", 'v': "ו", 'w': "ו", 'x': "קס",
	'y': "י", 'z': "ז", ' ': " ",
}

// latinDigraphs maps multi-character Latin sequences that transliterate as a
// unit. Scanned longest-first so e.g. "sh" wins over "s"+"h".
var latinDigraphs = map[string]string{
	"ch": "ח", "sh": "ש", "th": "ת", "kh": "ח", "ph": "פ",
	"oo": "ו", "ee": "י", "ei": "יי", "ie": "י", "ou": "ו",
	"ai": "יי", "ay": "יי", "ey": "יי", "ae": "יי",
	"ck": "ק",
	"tt": "ת", "dd": "ד", "nn": "נ", "mm": "מ", "ss": "ס",
	"ll": "ל", "rr": "ר", "ff": "פ", "pp": "פ", "bb": "ב", "gg": "ג", "cc": "ק",
}

// Hebrew letters with distinct word-final forms.
var finalLetters = map[rune]rune{
	'כ': 'ך',
	'מ': 'ם',
	'נ': 'ן',
	'פ': 'ף',
	'צ': 'ץ',
}
