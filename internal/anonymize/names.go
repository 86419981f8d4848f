package anonymize

// Replacement name pools for generated patient records. Common Chilean
// given names and surnames so anonymized censuses still read naturally.
var firstNames = []string{
	"María", "José", "Carlos", "Juan", "Pedro", "Luis", "Francisco", "Jorge",
	"Manuel", "Antonio", "Alejandro", "Roberto", "Miguel", "Ricardo", "Andrés",
	"Pablo", "Sergio", "Fernando", "Diego", "Gabriel", "Cristián", "Rodrigo",
	"Marcelo", "Daniel", "Felipe", "Jaime", "Claudio", "Eduardo", "Mauricio",
	"Raúl", "Carmen", "Ana", "Rosa", "Isabel", "Patricia", "Gloria", "Lucía",
	"Teresa", "Marta", "Silvia", "Elena", "Verónica", "Claudia", "Carolina",
	"Francisca", "Javiera", "Camila", "Daniela", "Valentina", "Constanza",
}

var lastNames = []string{
	"González", "Muñoz", "Rodríguez", "García", "Martínez", "López", "Hernández",
	"Pérez", "Fernández", "Sánchez", "Ramírez", "Torres", "Flores", "Rivera",
	"Gómez", "Díaz", "Contreras", "Rojas", "Silva", "Sepúlveda", "Morales",
	"Vargas", "Castillo", "Núñez", "Guzmán", "Vega", "Reyes", "Espinoza",
	"Jara", "Figueroa", "Álvarez", "Poblete", "Valdés", "Navarro", "Campos",
}
