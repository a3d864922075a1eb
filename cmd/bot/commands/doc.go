// Package commands содержит CLI pocket-bot: запуск бота и управление миграциями.
package commands
