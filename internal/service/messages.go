package service

// Student-facing text. The tutoring audience is Spanish speaking.
const (
	FallbackReply       = "Lo siento, ha ocurrido un error al procesar tu solicitud."
	MsgInvalidAccessKey = "Error: Clave de acceso no válida."
	MsgSessionExpired   = "Tu sesión ha expirado. Por favor, contacta a tu tutor para una nueva sesión."

	solutionInstruction = "\n\nPor favor, proporciona la solución paso a paso para el siguiente ejercicio:"
	greetingRequest     = "Hola, por favor, preséntate y saluda al alumno. Adicionalmente, indícale que puede seleccionar uno de los ejercicios de la lista de la izquierda o escribir uno directamente en el chat. Si no hay ejercicios, indícale que puede escribir uno directamente en el chat."

	exerciseGeneratorSystem = "Eres un tutor de programación experto. Genera un ejercicio práctico breve y claro basado en el tema proporcionado. " +
		`Responde únicamente con un objeto JSON con las claves "exercise" (enunciado), "solution" (solución breve), "exercise_type" y "difficulty".`
	exerciseGeneratorUser = "Genera un ejercicio de programación sobre: %s. No expliques, solo da el ejercicio."
)
