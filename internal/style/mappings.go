package style

// registerMap rewrites vernacular Cantonese to standard written
// Chinese. Substitution is longest-match-first over these keys, so
// 唔係 is rewritten as a unit before 唔 alone can fire.
var registerMap = map[string]string{
	"唔係":  "不是",
	"唔好":  "不要",
	"唔使":  "不用",
	"唔通":  "難道",
	"唔":   "不",
	"冇":   "沒有",
	"嘅":   "的",
	"咗":   "了",
	"喺":   "在",
	"睇":   "看",
	"佢哋":  "他們",
	"我哋":  "我們",
	"你哋":  "你們",
	"佢":   "他",
	"啲":   "些",
	"咁樣":  "這樣",
	"咁":   "這麼",
	"點解":  "為什麼",
	"點樣":  "怎樣",
	"而家":  "現在",
	"尋日":  "昨天",
	"聽日":  "明天",
	"今日":  "今天",
	"食":   "吃",
	"飲":   "喝",
	"講":   "說",
	"俾":   "給",
	"攞":   "拿",
	"靚":   "漂亮",
	"好犀利": "很厲害",
	"犀利":  "厲害",
	"係":   "是",
	"乜嘢":  "什麼",
	"嘢":   "東西",
	"邊度":  "哪裡",
	"呢度":  "這裡",
	"嗰度":  "那裡",
	"仲有":  "還有",
	"仲":   "還",
	"即刻":  "立刻",
	"成日":  "整天",
	"好耐":  "很久",
	"啱啱":  "剛剛",
	"啱":   "對",
	"傾偈":  "聊天",
	"瞓覺":  "睡覺",
	"瞓":   "睡",
	"攰":   "累",
	"返工":  "上班",
	"放工":  "下班",
}

// semiKeepWords are characteristically Cantonese words preserved in
// the semi-formal register even though registerMap covers them.
var semiKeepWords = map[string]bool{
	"睇": true,
	"靚": true,
	"啲": true,
	"咁": true,
	"咗": true,
	"嘅": true,
	"冇": true,
	"唔": true,
}

// corrections fixes recurring recognizer homophone errors before any
// other transformation sees the text.
var corrections = map[string]string{
	"宜家": "而家",
	"依家": "而家",
	"唔洗": "唔使",
	"果個": "嗰個",
	"果度": "嗰度",
	"果啲": "嗰啲",
	"甘樣": "咁樣",
	"既然": "既然", // guard: keep 既然 intact ahead of the 既 correction
	"既":  "嘅",
	"黎":  "嚟",
	"野":  "嘢",
}

// englishDictionary is the first cascade stage: curated phrase
// translations, Traditional script by construction. Keys lowercased.
var englishDictionary = map[string]string{
	"lunch":     "午餐",
	"dinner":    "晚餐",
	"breakfast": "早餐",
	"coffee":    "咖啡",
	"tea":       "茶",
	"cake":      "蛋糕",
	"office":    "辦公室",
	"meeting":   "會議",
	"project":   "項目",
	"deadline":  "截止日期",
	"weekend":   "週末",
	"holiday":   "假期",
	"shopping":  "購物",
	"email":     "電郵",
	"software":  "軟件",
	"computer":  "電腦",
	"phone":     "電話",
	"taxi":      "的士",
	"bus":       "巴士",
	"plan":      "計劃",
	"team":      "團隊",
	"boss":      "老闆",
	"movie":     "電影",
	"music":     "音樂",
	"game":      "遊戲",
	"party":     "派對",
	"friend":    "朋友",
	"school":    "學校",
	"teacher":   "老師",
	"student":   "學生",
	"happy":     "開心",
	"ok":        "好的",
	"okay":      "好的",
	"thank you": "謝謝",
}

// sentenceFinalParticles are Cantonese utterance-final particles. A
// segment that starts with one almost always lost it from the tail of
// the previous segment at a voice-activity boundary.
var sentenceFinalParticles = map[rune]bool{
	'呀': true,
	'啊': true,
	'喇': true,
	'嘞': true,
	'囉': true,
	'咯': true,
	'嘛': true,
	'啩': true,
	'咩': true,
	'呢': true,
	'吖': true,
	'㗎': true,
	'喎': true,
	'啦': true,
}

// profanityMild maps strong language to softened equivalents.
var profanityMild = map[string]string{
	"仆街":  "弊傢伙",
	"冚家鏟": "豈有此理",
	"戇鳩":  "傻",
	"on9": "傻",
}
