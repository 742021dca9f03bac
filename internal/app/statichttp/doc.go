// Package statichttp реализует HTTP-раздачу файлов из каталога на локальном диске.
// Основные эндпоинты:
//   - GET <mount_prefix>* — отдаёт файл целиком, диапазоном (206) или 304/412/416 по условным заголовкам.
//   - HEAD <mount_prefix>* — те же заголовки без тела.
//   - GET /health — проверяет, что корень раздачи доступен.
//
// Разрешение пути и выбор ответа живут в resolver/response; здесь только маршрутизация,
// middleware (request id, access-лог, CORS, ограничение параллелизма) и запись байт в сеть.
package statichttp
