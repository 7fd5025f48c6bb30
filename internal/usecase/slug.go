package usecase

import "strings"

// MakeSlugは表示名からURLスラッグを作る。
// 保存フックではなく、エンティティを組み立てる前に明示的に呼ぶ。
func MakeSlug(name string) string {
	var b strings.Builder
	lastDash := true // 先頭のダッシュを抑止

	for _, r := range strings.ToLower(name) {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if isAlnum {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}

	return strings.TrimRight(b.String(), "-")
}
