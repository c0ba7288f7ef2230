package registry

var statusEmojis = map[Status]string{
	StatusAdmin:  "👑",
	StatusVerify: "✅",
	StatusGarant: "🛡️",
	StatusMedia:  "📣",
	StatusFame:   "🌟",
	StatusScam:   "⚠️",
	StatusBeach:  "🏚️",
	StatusNew:    "🆕",
	StatusPDF:    "🚷",
}

var statusNames = map[Status]string{
	StatusAdmin:  "Админ",
	StatusVerify: "Верифицирован",
	StatusGarant: "Гарант",
	StatusMedia:  "Медийка",
	StatusFame:   "Фейм",
	StatusScam:   "Скам",
	StatusBeach:  "Бомж",
	StatusNew:    "Нью",
	StatusPDF:    "ПДФ",
}

var statusDescriptions = map[Status]string{
	StatusAdmin:  "Администратор бота",
	StatusVerify: "Проверенный пользователь, можно доверять",
	StatusGarant: "Проводит сделки как гарант",
	StatusMedia:  "Медийная личность",
	StatusFame:   "Известный пользователь",
	StatusScam:   "Замечен в обмане, сделки проводить опасно",
	StatusBeach:  "Без репутации и поручителей",
	StatusNew:    "Новый пользователь, истории сделок нет",
	StatusPDF:    "Внесён за противоправный контент",
}

// Emoji returns the display emoji for a status, empty for unknown codes.
func Emoji(s Status) string { return statusEmojis[s] }

// DisplayName returns the localized status name. Unknown codes fall back
// to the raw code.
func DisplayName(s Status) string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return string(s)
}

// Description returns the one-line explanation shown on lookups.
func Description(s Status) string {
	if d, ok := statusDescriptions[s]; ok {
		return d
	}
	return "Неизвестный статус"
}
