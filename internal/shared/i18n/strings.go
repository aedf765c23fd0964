package i18n

// Templates use pongo2 syntax and are autoescaped. Parameters that already
// hold HTML, such as user mentions, are marked safe in the template.
var catalog = map[string]map[string]string{
	"uz": {
		"welcome":             "Salom! Men guruh moderatori botman. Meni guruhingizga qo'shing va administrator qiling.",
		"warn_user":           "⚠️ Ogohlantirish! {{ user|safe }}\nSabab: {{ reason }}\nOgohlantirishlar: {{ count }}/{{ limit }}",
		"ban_user":            "🚫 Foydalanuvchi {{ user|safe }} guruhdan chetlashtirildi.",
		"kick_user":           "👢 Foydalanuvchi {{ user|safe }} guruhdan chiqarildi.",
		"mute_user":           "🔇 Foydalanuvchi {{ user|safe }} {{ duration }} daqiqaga ovozsiz rejimga o'tkazildi.",
		"flood_mute":          "🌊 {{ user|safe }} juda ko'p xabar yubordi va {{ duration }} daqiqaga ovozsiz rejimga o'tkazildi.",
		"unban_user":          "✅ Foydalanuvchi {{ user|safe }} blokdan chiqarildi.",
		"unmute_user":         "🔊 Foydalanuvchi {{ user|safe }} yana yozishi mumkin.",
		"captcha_prompt":      "👋 Salom {{ user|safe }}! Bot emasligingizni tasdiqlang. Quyidagi tugmani {{ seconds }} soniya ichida bosing.",
		"captcha_btn":         "Men odamman ✅",
		"captcha_not_yours":   "Bu tugma siz uchun emas.",
		"captcha_welcome":     "Xush kelibsiz!",
		"error_no_permission": "❌ Sizda bu buyruqni ishlatish uchun huquq yo'q.",
		"reply_required":      "Buyruqni foydalanuvchi xabariga javob sifatida yuboring.",
		"action_failed":       "Amalni bajarib bo'lmadi. Botning administrator huquqlarini tekshiring.",
		"link_detected":       "Reklama havolalari taqiqlangan!",
		"forward_detected":    "Uzatilgan xabarlar taqiqlangan!",
		"bad_word":            "Haqoratli so'z ishlatmang!",
		"media_detected":      "Bu turdagi media taqiqlangan!",
		"manual_warn":         "Administrator ogohlantirishi",
		"warns_status":        "{{ user|safe }}: ogohlantirishlar {{ count }}/{{ limit }}",
		"warns_reset":         "{{ user|safe }} ogohlantirishlari tozalandi.",
		"settings": "⚙️ Guruh sozlamalari\n" +
			"Havolalar o'chiriladi: {{ policy.DeleteLinks|yesno:\"ha,yo'q\" }}\n" +
			"Eslatmalar o'chiriladi: {{ policy.DeleteMentions|yesno:\"ha,yo'q\" }}\n" +
			"Uzatilganlar o'chiriladi: {{ policy.DeleteForwards|yesno:\"ha,yo'q\" }}\n" +
			"Flood nazorati: {{ policy.AntiSpamEnabled|yesno:\"ha,yo'q\" }} ({{ policy.FloodThreshold }}/{{ policy.FloodWindowSeconds }}s)\n" +
			"Ogohlantirish chegarasi: {{ policy.WarnLimit }} → {{ policy.EscalationAction }}\n" +
			"Captcha: {{ policy.CaptchaEnabled|yesno:\"ha,yo'q\" }} ({{ policy.CaptchaTimeoutSeconds }}s)",
		"stats": "📊 Guruhlar: {{ groups }}\nQayd etilgan amallar: {{ events }}",
	},
	"ru": {
		"welcome":             "Привет! Я бот-модератор группы. Добавьте меня в группу и назначьте администратором.",
		"warn_user":           "⚠️ Предупреждение! {{ user|safe }}\nПричина: {{ reason }}\nПредупреждения: {{ count }}/{{ limit }}",
		"ban_user":            "🚫 Пользователь {{ user|safe }} был заблокирован.",
		"kick_user":           "👢 Пользователь {{ user|safe }} исключён из группы.",
		"mute_user":           "🔇 Пользователь {{ user|safe }} заглушен на {{ duration }} минут.",
		"flood_mute":          "🌊 {{ user|safe }} отправляет слишком много сообщений и заглушен на {{ duration }} минут.",
		"unban_user":          "✅ Пользователь {{ user|safe }} разблокирован.",
		"unmute_user":         "🔊 Пользователь {{ user|safe }} снова может писать.",
		"captcha_prompt":      "👋 Привет {{ user|safe }}! Подтвердите, что вы не робот. Нажмите кнопку ниже в течение {{ seconds }} секунд.",
		"captcha_btn":         "Я человек ✅",
		"captcha_not_yours":   "Эта кнопка не для вас.",
		"captcha_welcome":     "Добро пожаловать!",
		"error_no_permission": "❌ У вас нет прав на использование этой команды.",
		"reply_required":      "Отправьте команду ответом на сообщение пользователя.",
		"action_failed":       "Не удалось выполнить действие. Проверьте права администратора у бота.",
		"link_detected":       "Рекламные ссылки запрещены!",
		"forward_detected":    "Пересланные сообщения запрещены!",
		"bad_word":            "Не используйте оскорбительные слова!",
		"media_detected":      "Этот тип медиа запрещён!",
		"manual_warn":         "Предупреждение администратора",
		"warns_status":        "{{ user|safe }}: предупреждений {{ count }}/{{ limit }}",
		"warns_reset":         "Предупреждения {{ user|safe }} сброшены.",
		"settings": "⚙️ Настройки группы\n" +
			"Удалять ссылки: {{ policy.DeleteLinks|yesno:\"да,нет\" }}\n" +
			"Удалять упоминания: {{ policy.DeleteMentions|yesno:\"да,нет\" }}\n" +
			"Удалять пересланные: {{ policy.DeleteForwards|yesno:\"да,нет\" }}\n" +
			"Антифлуд: {{ policy.AntiSpamEnabled|yesno:\"да,нет\" }} ({{ policy.FloodThreshold }}/{{ policy.FloodWindowSeconds }}s)\n" +
			"Лимит предупреждений: {{ policy.WarnLimit }} → {{ policy.EscalationAction }}\n" +
			"Капча: {{ policy.CaptchaEnabled|yesno:\"да,нет\" }} ({{ policy.CaptchaTimeoutSeconds }}s)",
		"stats": "📊 Группы: {{ groups }}\nЗаписано действий: {{ events }}",
	},
	"en": {
		"welcome":             "Hi! I am a group moderator bot. Add me to your group and make me an administrator.",
		"warn_user":           "⚠️ Warning! {{ user|safe }}\nReason: {{ reason }}\nWarnings: {{ count }}/{{ limit }}",
		"ban_user":            "🚫 User {{ user|safe }} has been banned.",
		"kick_user":           "👢 User {{ user|safe }} has been removed from the group.",
		"mute_user":           "🔇 User {{ user|safe }} has been muted for {{ duration }} minutes.",
		"flood_mute":          "🌊 {{ user|safe }} is sending too many messages and has been muted for {{ duration }} minutes.",
		"unban_user":          "✅ User {{ user|safe }} has been unbanned.",
		"unmute_user":         "🔊 User {{ user|safe }} can write again.",
		"captcha_prompt":      "👋 Hi {{ user|safe }}! Please confirm you are not a robot by pressing the button below within {{ seconds }} seconds.",
		"captcha_btn":         "I am human ✅",
		"captcha_not_yours":   "This button is not for you.",
		"captcha_welcome":     "Welcome!",
		"error_no_permission": "❌ You are not allowed to use this command.",
		"reply_required":      "Send the command as a reply to the user's message.",
		"action_failed":       "The action failed. Check the bot's administrator rights.",
		"link_detected":       "Advertising links are not allowed!",
		"forward_detected":    "Forwarded messages are not allowed!",
		"bad_word":            "Do not use offensive words!",
		"media_detected":      "This kind of media is not allowed!",
		"manual_warn":         "Warned by an administrator",
		"warns_status":        "{{ user|safe }}: {{ count }}/{{ limit }} warnings",
		"warns_reset":         "Warnings of {{ user|safe }} were cleared.",
		"settings": "⚙️ Group settings\n" +
			"Delete links: {{ policy.DeleteLinks|yesno:\"yes,no\" }}\n" +
			"Delete mentions: {{ policy.DeleteMentions|yesno:\"yes,no\" }}\n" +
			"Delete forwards: {{ policy.DeleteForwards|yesno:\"yes,no\" }}\n" +
			"Flood control: {{ policy.AntiSpamEnabled|yesno:\"yes,no\" }} ({{ policy.FloodThreshold }}/{{ policy.FloodWindowSeconds }}s)\n" +
			"Warn limit: {{ policy.WarnLimit }} → {{ policy.EscalationAction }}\n" +
			"Captcha: {{ policy.CaptchaEnabled|yesno:\"yes,no\" }} ({{ policy.CaptchaTimeoutSeconds }}s)",
		"stats": "📊 Groups: {{ groups }}\nRecorded actions: {{ events }}",
	},
}
