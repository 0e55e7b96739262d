package postgres

// SQL for post, user and task storage. interacciones_total and
// engagement_rate are generated columns; inserts never supply them and the
// RETURNING clause reads back what the database computed.

const (
	// querySavePost inserts a record. ON CONFLICT DO NOTHING returns no
	// rows (sql.ErrNoRows) for duplicate ids.
	querySavePost = `
		INSERT INTO publicaciones (
			id, username, tipo_post, titulo, fecha_publicacion, hora_publicacion,
			impresiones, me_gusta, comentarios, compartidos, clics_enlaces,
			contiene_enlace, tiempo_retencion, formato_contenido, notas
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (id) DO NOTHING
		RETURNING interacciones_total, engagement_rate
	`

	// postColumns is the shared projection for scanPostRow.
	postColumns = `
		id, username, tipo_post, titulo, fecha_publicacion, hora_publicacion,
		impresiones, me_gusta, comentarios, compartidos, clics_enlaces,
		contiene_enlace, tiempo_retencion, formato_contenido, notas,
		interacciones_total, engagement_rate
	`

	queryCountPosts = `
		SELECT COUNT(*) FROM publicaciones WHERE username = $1
	`

	queryListPostTypes = `
		SELECT DISTINCT tipo_post
		FROM publicaciones
		WHERE username = $1 AND tipo_post <> ''
		ORDER BY tipo_post ASC
	`

	queryCreateUser = `
		INSERT INTO users (username, email, password, first_name, last_name, role)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT DO NOTHING
		RETURNING id
	`

	queryGetUserByEmail = `
		SELECT id, username, email, password, first_name, last_name, role
		FROM users
		WHERE email = $1
	`

	queryGetUserByID = `
		SELECT id, username, email, password, first_name, last_name, role
		FROM users
		WHERE id = $1
	`

	queryListUsers = `
		SELECT id, username, email, password, first_name, last_name, role
		FROM users
		ORDER BY id ASC
	`

	queryUpdateUser = `
		UPDATE users
		SET email = COALESCE(NULLIF($1, ''), email),
		    first_name = $2,
		    last_name = $3,
		    role = COALESCE(NULLIF($4, ''), role),
		    password = COALESCE(NULLIF($5, ''), password)
		WHERE id = $6
		RETURNING id
	`

	queryDeleteUser = `
		DELETE FROM users WHERE id = $1 RETURNING username
	`

	queryEmailTaken = `
		SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 AND id <> $2)
	`

	queryListTasks = `
		SELECT id, username, fecha, hora, titulo, descripcion, plataforma
		FROM tareas
		WHERE username = $1
		ORDER BY fecha ASC, hora ASC
	`

	querySaveTask = `
		INSERT INTO tareas (id, username, fecha, hora, titulo, descripcion, plataforma)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
)
