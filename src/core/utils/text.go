package utils

import (
	"strings"
	"unicode/utf8"
)

// CountWords 按空白字符切分统计单词数
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// CountCharacters 统计字符数（按Unicode码点，而不是字节）
func CountCharacters(text string) int {
	return utf8.RuneCountInString(text)
}
