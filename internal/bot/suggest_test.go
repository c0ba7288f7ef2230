package bot

import "testing"

func TestParseSuggestion(t *testing.T) {
	text := "1. Желаемый статус: медийка\n" +
		"2. Доказательство (фото или ссылка): https://example.com/proof.jpg\n" +
		"3. Причина/Обоснование: Это известный пользователь,\nвсе его знают\n" +
		"4. Юзернейм (если предлагаете другого пользователя): @SomeUser"

	in, ok := parseSuggestion(text)
	if !ok {
		t.Fatal("well-formed submission did not parse")
	}
	if in.DesiredStatus != "медийка" {
		t.Errorf("status = %q", in.DesiredStatus)
	}
	if in.Proof != "https://example.com/proof.jpg" {
		t.Errorf("proof = %q", in.Proof)
	}
	if in.Reason != "Это известный пользователь,\nвсе его знают" {
		t.Errorf("reason = %q", in.Reason)
	}
	if in.Username != "someuser" {
		t.Errorf("username = %q, want lowercase without @", in.Username)
	}
}

func TestParseSuggestionWithoutAt(t *testing.T) {
	text := "1. Желаемый статус: scam\n" +
		"2. Доказательство (фото или ссылка): скрин\n" +
		"3. Причина/Обоснование: кинул на деньги\n" +
		"4. Юзернейм (если предлагаете другого пользователя): baduser"

	in, ok := parseSuggestion(text)
	if !ok {
		t.Fatal("submission without @ did not parse")
	}
	if in.Username != "baduser" {
		t.Errorf("username = %q", in.Username)
	}
}

func TestParseSuggestionRejectsMalformed(t *testing.T) {
	for _, text := range []string{
		"",
		"просто текст",
		"1. Желаемый статус: scam", // truncated form
	} {
		if _, ok := parseSuggestion(text); ok {
			t.Errorf("malformed input parsed: %q", text)
		}
	}
}
