package rod

const (
	BasicHTML = `<!DOCTYPE html>
<html>
<head><title>Test Page</title></head>
<body>
	<h1>Hello World</h1>
</body>
</html>`

	ContrastHTML = `<!DOCTYPE html>
<html>
<body style="background: rgb(255, 255, 255); color: rgb(0, 0, 0);">
	<p id="low" style="color: rgb(119, 119, 119); background-color: rgb(136, 136, 136);">Hard to read</p>
	<p id="ok" style="color: rgb(0, 0, 0); background-color: rgb(255, 255, 255);">Easy to read</p>
</body>
</html>`

	ImagesHTML = `<!DOCTYPE html>
<html>
<body>
	<img id="hero" src="/hero.png" alt="photo2">
	<img id="logo" src="/logo.png" alt="Company logo">
	<header id="top" role="banner">Top</header>
</body>
</html>`

	TrappedModalHTML = `<!DOCTYPE html>
<html>
<body>
	<a href="#" id="outside">Outside</a>
	<div role="dialog" id="modal">
		<button id="first">First</button>
		<input id="second" type="text">
		<button id="last">Last</button>
	</div>
	<script>
		const modal = document.getElementById('modal');
		const focusable = modal.querySelectorAll('button, input');
		modal.addEventListener('keydown', (e) => {
			if (e.key !== 'Tab') return;
			const first = focusable[0];
			const last = focusable[focusable.length - 1];
			if (!e.shiftKey && document.activeElement === last) {
				e.preventDefault();
				first.focus();
			}
		});
	</script>
</body>
</html>`

	LeakyModalHTML = `<!DOCTYPE html>
<html>
<body>
	<div role="dialog" id="modal">
		<button id="first">First</button>
		<button id="last">Last</button>
	</div>
	<input id="outside" type="text">
</body>
</html>`
)
