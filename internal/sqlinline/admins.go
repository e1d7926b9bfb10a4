package sqlinline

const QSelectAdminByEmail = `--sql b7553ca2-a78b-4ed0-bb0f-1b3099878dc8
select id, email, password_hash
from admin_users
where email = $1
limit 1;
`

const QInsertAdmin = `--sql ba6e3616-e7ab-46e4-abf5-75652d4101cd
insert into admin_users(email, password_hash)
values ($1, $2)
returning id;
`
