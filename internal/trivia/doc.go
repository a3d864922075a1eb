// Package trivia реализует доступ к REST API Open Trivia DB.
//
// Client ходит в API как есть; Repository поверх него гасит ошибки до пустого
// результата и реализует ограниченный поиск замены вопроса для подсказки «замена».
package trivia
