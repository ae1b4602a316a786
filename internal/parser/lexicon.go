package parser

// intentPatterns holds, per intent, the diacritic-bearing and
// diacritic-stripped phrase sets. Patterns are checked as substrings
// of the normalized/stripped query text respectively — plain lexical
// cue lists, not general-purpose regular expressions.
type intentPatternSet struct {
	Diacritic []string
	Stripped  []string
}

var intentPatterns = map[string]intentPatternSet{
	"find_restaurant": {
		Diacritic: []string{"quán ăn", "nhà hàng", "ăn uống", "quán cà phê", "cà phê", "buffet", "đồ ăn"},
		Stripped:  []string{"quan an", "nha hang", "an uong", "quan ca phe", "ca phe", "buffet", "do an"},
	},
	"find_hotel": {
		Diacritic: []string{"khách sạn", "resort", "nghỉ dưỡng", "homestay", "phòng nghỉ"},
		Stripped:  []string{"khach san", "resort", "nghi duong", "homestay", "phong nghi"},
	},
	"find_entertainment": {
		Diacritic: []string{"giải trí", "rạp chiếu phim", "karaoke", "công viên", "khu vui chơi"},
		Stripped:  []string{"giai tri", "rap chieu phim", "karaoke", "cong vien", "khu vui choi"},
	},
	"find_shopping": {
		Diacritic: []string{"mua sắm", "trung tâm thương mại", "siêu thị", "cửa hàng"},
		Stripped:  []string{"mua sam", "trung tam thuong mai", "sieu thi", "cua hang"},
	},
	"find_beauty": {
		Diacritic: []string{"làm đẹp", "spa", "thẩm mỹ viện", "gội đầu", "chăm sóc da"},
		Stripped:  []string{"lam dep", "spa", "tham my vien", "goi dau", "cham soc da"},
	},
	"find_travel": {
		Diacritic: []string{"du lịch", "tour", "vé máy bay", "phượt", "check-in"},
		Stripped:  []string{"du lich", "tour", "ve may bay", "phuot", "check in"},
	},
	"find_kids": {
		Diacritic: []string{"trẻ em", "cho trẻ em chơi", "khu vui chơi trẻ em", "gia đình có con nhỏ"},
		Stripped:  []string{"tre em", "cho tre em choi", "khu vui choi tre em", "gia dinh co con nho"},
	},
}

// tagPattern is one entry in a curated tag lexicon: a symbolic tag and
// the phrases (in both forms) that signal it.
type tagPattern struct {
	Tag       string
	Diacritic []string
	Stripped  []string
}

var serviceTagLexicon = []tagPattern{
	{Tag: "kids_area", Diacritic: []string{"chỗ cho trẻ em chơi", "khu vui chơi trẻ em", "sân chơi"}, Stripped: []string{"cho cho tre em choi", "khu vui choi tre em", "san choi"}},
	{Tag: "romantic", Diacritic: []string{"lãng mạn", "không gian lãng mạn"}, Stripped: []string{"lang man", "khong gian lang man"}},
	{Tag: "outdoor", Diacritic: []string{"ngoài trời", "sân vườn"}, Stripped: []string{"ngoai troi", "san vuon"}},
	{Tag: "buffet", Diacritic: []string{"buffet", "ăn thỏa thích"}, Stripped: []string{"buffet", "an thoa thich"}},
	{Tag: "live_music", Diacritic: []string{"nhạc sống", "nhạc acoustic"}, Stripped: []string{"nhac song", "nhac acoustic"}},
	{Tag: "pet_friendly", Diacritic: []string{"cho phép thú cưng", "thú cưng"}, Stripped: []string{"cho phep thu cung", "thu cung"}},
}

var targetAudienceLexicon = []tagPattern{
	{Tag: "family", Diacritic: []string{"gia đình", "cả gia đình"}, Stripped: []string{"gia dinh", "ca gia dinh"}},
	{Tag: "kids", Diacritic: []string{"trẻ em", "con nhỏ"}, Stripped: []string{"tre em", "con nho"}},
	{Tag: "couple", Diacritic: []string{"cặp đôi", "người yêu"}, Stripped: []string{"cap doi", "nguoi yeu"}},
	{Tag: "group", Diacritic: []string{"nhóm bạn", "công ty"}, Stripped: []string{"nhom ban", "cong ty"}},
	{Tag: "solo", Diacritic: []string{"một mình"}, Stripped: []string{"mot minh"}},
}

// pricePatterns maps a price-range tag to its lexical cues, checked
// in this order so at most one range is picked, with the more
// specific/extreme cues taking precedence.
var pricePatterns = []struct {
	Range     string
	Diacritic []string
	Stripped  []string
}{
	{Range: "luxury", Diacritic: []string{"sang trọng", "cao cấp nhất", "luxury", "vip"}, Stripped: []string{"sang trong", "cao cap nhat", "luxury", "vip"}},
	{Range: "premium", Diacritic: []string{"cao cấp"}, Stripped: []string{"cao cap"}},
	{Range: "mid-range", Diacritic: []string{"tầm trung", "vừa phải"}, Stripped: []string{"tam trung", "vua phai"}},
	{Range: "budget", Diacritic: []string{"rẻ", "bình dân", "giá rẻ", "tiết kiệm"}, Stripped: []string{"re", "binh dan", "gia re", "tiet kiem"}},
}

// stopWords are removed before the remaining tokens become keywords.
var stopWords = map[string]bool{
	"la": true, "va": true, "o": true, "tai": true, "cua": true, "co": true,
	"cho": true, "nhung": true, "voi": true, "mot": true, "cac": true,
	"nhieu": true, "rat": true, "the": true, "nao": true, "nay": true, "do": true,
	"trong": true, "den": true, "duoc": true, "se": true, "khong": true, "hay": true,
	"nhu": true, "gi": true, "ma": true,
}
